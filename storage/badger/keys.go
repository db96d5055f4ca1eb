package badger

// Key prefixes for different data types
const (
	vectorEntryPrefix = "parvec"
)

// makeVectorEntryKey generates a key for a vector entry by paragraph ID.
func makeVectorEntryKey(id string) []byte {
	return []byte(vectorEntryPrefix + ":" + id)
}

// vectorEntryKeyPrefix is the prefix covering all vector entry keys.
func vectorEntryKeyPrefix() []byte {
	return []byte(vectorEntryPrefix + ":")
}
