package config

const (
	// MaxTitleLength is the maximum length for materi titles.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxTitleLength = 255

	// MaxDescriptionLength is the maximum length for materi descriptions.
	MaxDescriptionLength = 5000

	// MaxContentURLLength is the maximum length for content URLs.
	MaxContentURLLength = 2048

	// MinUsernameLength and MaxUsernameLength bound usernames.
	MinUsernameLength = 5
	MaxUsernameLength = 50

	// MinPasswordLength is the shortest accepted password.
	MinPasswordLength = 6

	// MaxPasswordLength is bcrypt's input limit; longer input is rejected, not truncated.
	MaxPasswordLength = 72

	// MaxNameLength is the maximum length for display names.
	MaxNameLength = 100

	// DefaultMaxFolderDepth bounds folder traversal. Real course folders are a
	// handful of levels deep; a deeper hierarchy means cyclic or abusive data.
	DefaultMaxFolderDepth = 32

	// DrivePageSize is the largest page Google Drive returns for files.list.
	DrivePageSize = 1000
)
