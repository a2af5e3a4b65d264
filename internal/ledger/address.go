package ledger

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Namespace tags for entity addresses.
const (
	NamespaceStats  = "platform_stats"
	NamespaceVault  = "platform_vault"
	NamespaceAdmin  = "admin"
	NamespacePlayer = "player"
	NamespaceWallet = "wallet"
)

// Address derives the storage location of an entity from a namespace tag
// and its identifying key material. The same inputs always yield the same
// address.
func Address(namespace string, key ...string) string {
	h, _ := blake2b.New256(nil) // nil key never errors

	h.Write([]byte(namespace))
	for _, k := range key {
		h.Write([]byte{0})
		h.Write([]byte(k))
	}

	return hex.EncodeToString(h.Sum(nil))
}

// VaultAddress is the single treasury vault account.
func VaultAddress() string { return Address(NamespaceVault) }

// StatsAddress is the Platform Stats singleton location.
func StatsAddress() string { return Address(NamespaceStats) }

// PlayerAddress is the Player Account location for identity.
func PlayerAddress(identity string) string { return Address(NamespacePlayer, identity) }

// AdminAddress is the Admin Registry record location for identity.
func AdminAddress(identity string) string { return Address(NamespaceAdmin, identity) }

// WalletAddress is the spendable balance account owned by identity.
func WalletAddress(identity string) string { return Address(NamespaceWallet, identity) }

// CallerSeed builds the 32-byte seed handed to the randomness oracle.
func CallerSeed(identity, requestID string, clientSeed []byte) [32]byte {
	h, _ := blake2b.New256(nil)

	h.Write([]byte("caller_seed"))
	h.Write([]byte{0})
	h.Write([]byte(identity))
	h.Write([]byte{0})
	h.Write([]byte(requestID))
	h.Write([]byte{0})
	h.Write(clientSeed)

	var out [32]byte
	copy(out[:], h.Sum(nil))

	return out
}
