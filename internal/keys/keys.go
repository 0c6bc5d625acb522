package keys

import "strings"

// Prefix namespaces every persisted key so several apps can share one store.
const Prefix = "nfc"

// Storage returns the persisted key for a logical key name, e.g.
// "CharacterHP" -> "nfcCharacterHP". Already prefixed names are returned as is.
func Storage(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, Prefix) {
		return name
	}
	return Prefix + name
}

// Logical strips the namespace prefix from a persisted key.
func Logical(key string) string {
	return strings.TrimPrefix(key, Prefix)
}
