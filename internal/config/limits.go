package config

const (
	// MaxItemNameLength is the maximum length for folder and file names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (names should be short and descriptive).
	MaxItemNameLength = 255

	// MaxTodoTitleLength is the maximum length for todo titles.
	MaxTodoTitleLength = 255

	// MaxExpenseNameLength is the maximum length for expense names.
	MaxExpenseNameLength = 255

	// MaxUploadBytes caps a single multipart upload. Large enough for
	// documents and images, small enough that one request cannot fill
	// the disk.
	MaxUploadBytes = 50 << 20

	// MaxRequestBodyBytes caps JSON request bodies.
	MaxRequestBodyBytes = 1 << 20
)
