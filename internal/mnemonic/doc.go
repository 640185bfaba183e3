// Package mnemonic generates BIP-39 phrases in the supported wordlists and
// turns them into 64-byte seeds for secret and key pair derivation.
package mnemonic
