package credentials

// Durable storage keys for the persisted session. All three are written
// together on login and removed together on logout or a failed restore.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
)

// Keyring is the durable key-value store behind the credential Store.
// Implementations must tolerate deletes of absent keys (logout is
// idempotent) and report absent keys from Get with ok == false rather
// than an error.
type Keyring interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}
