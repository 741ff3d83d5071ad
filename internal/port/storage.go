package port

// Tier is one persistence tier of client state: a flat string keyspace with
// read-your-writes visibility. The durable implementation survives restarts;
// the session implementation lives for the current process.
type Tier interface {
	// Get returns the stored value and whether the key was present.
	Get(key string) (string, bool)
	// Set stores value under key, replacing any previous value.
	Set(key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}
