// Package chord declares the recipe of the chord package.
package chord

import "github.com/goplus/recipe/recipe"

// Name is the package name.
const Name = "chord"

// Option keys.
const (
	OptShared                  = "shared"
	OptBuildType               = "build_type"
	OptRuntimeDistributionRoot = "runtime_distribution_root"
	OptEnableSanitizer         = "enable_sanitizer"
	OptSanitizer               = "sanitizer"
	OptEnableProfiler          = "enable_profiler"
)

// Toolchain variable names read by chord's CMakeLists.txt.
const (
	VarPackageVersion          = "CHORD_PACKAGE_VERSION"
	VarProtobufProtoc          = "PROTOBUF_PROTOC"
	VarGrpcCppPlugin           = "GRPC_CPP_PLUGIN"
	VarRuntimeDistributionRoot = "RUNTIME_DISTRIBUTION_ROOT"
	VarEnableSanitizer         = "ENABLE_SANITIZER"
	VarSanitizer               = "SANITIZER"
	VarEnableProfiler          = "ENABLE_PROFILER"
)

// Channel is the pinned distribution channel of the third party requirements.
const Channel = "timbre"

// Recipe returns the chord recipe. Each call returns a fresh value.
func Recipe() *recipe.Recipe {
	return &recipe.Recipe{
		Name:      Name,
		MinCppStd: "20",
		Options: []recipe.OptionSpec{
			{Key: OptShared, Domain: recipe.Boolean(), Default: recipe.Bool(true)},
			{Key: OptBuildType, Domain: recipe.OneOf("Debug", "Release"), Default: recipe.String("Debug")},
			{Key: OptRuntimeDistributionRoot, Domain: recipe.Any(), Default: recipe.Unset()},
			{Key: OptEnableSanitizer, Domain: recipe.Boolean().OrUnset(), Default: recipe.Unset()},
			{Key: OptSanitizer, Domain: recipe.OneOf("address", "memory", "thread", "ub").OrUnset(), Default: recipe.Unset()},
			{Key: OptEnableProfiler, Domain: recipe.Boolean().OrUnset(), Default: recipe.Unset()},
		},
		Requires: recipe.MustRequire(
			"lyric/0.0.1",
			"tempo/0.0.1",
			"zuri/0.0.1",
			// requirements from timbre
			"absl/20230802.1@timbre",
			"boost/1.84.0@timbre",
			"curl/8.5.0@timbre",
			"fmt/9.1.0@timbre",
			"flatbuffers/23.5.26@timbre",
			"grpc/1.62.0@timbre",
			"gtest/1.14.0@timbre",
			"icu/74.1@timbre",
			"openssl/3.2.0@timbre",
			"protobuf/25.3@timbre",
			"rocksdb/8.5.3@timbre",
			"uv/1.44.1@timbre",
		),
		Toolchain: recipe.Toolchain{
			VersionVar: VarPackageVersion,
			Env: []recipe.EnvVar{
				{Name: VarProtobufProtoc, Dependency: "protobuf", Key: "PROTOBUF_PROTOC", Type: recipe.TypePath},
				{Name: VarGrpcCppPlugin, Dependency: "grpc", Key: "GRPC_CPP_PLUGIN", Type: recipe.TypePath},
			},
			Options: []recipe.OptionVar{
				{Name: VarRuntimeDistributionRoot, Option: OptRuntimeDistributionRoot, Type: recipe.TypePath},
				{Name: VarEnableSanitizer, Option: OptEnableSanitizer, Type: recipe.TypeBool},
				{Name: VarSanitizer, Option: OptSanitizer, Type: recipe.TypeString},
				{Name: VarEnableProfiler, Option: OptEnableProfiler, Type: recipe.TypeBool},
			},
		},
		Overrides: []recipe.PropertyOverride{
			{Target: "openssl::crypto", Property: "cmake_target_name", Value: "OpenSSL::Crypto"},
			{Target: "openssl::ssl", Property: "cmake_target_name", Value: "OpenSSL::SSL"},
		},
		Package: recipe.PackageInfo{
			CMakeFindMode: "none",
			BuildDirs:     []string{"lib/cmake/chord"},
		},
	}
}
