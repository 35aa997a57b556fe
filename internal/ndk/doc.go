// Package ndk resolves the root of an installed OpenHarmony native
// development kit.
//
// Resolution order:
//   - the explicit home variable (OHOS_NDK_HOME) when set, without searching
//   - otherwise every directory named *native under the SDK root variables
//     (OHOS_SDK_HOME, DEVECO_SDK_HOME), greatest path first
//
// A root is accepted only when it holds sysroot, llvm/bin and
// build-tools/cmake/bin.
package ndk
