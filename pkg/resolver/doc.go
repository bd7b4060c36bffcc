// Package resolver turns an identity into a verified file in the local
// cache, downloading from the repository only when the cache cannot prove
// it already holds the right bytes.
//
// A cached artifact is only ever published by renaming a fully verified temp
// file into place, so concurrent resolvers sharing one cache directory never
// observe partial or corrupt content.
package resolver
