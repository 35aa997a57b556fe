// Package har stages the Flutter embedding sources and engine libraries into
// an hvigor project and builds the flutter.har package from it.
package har
