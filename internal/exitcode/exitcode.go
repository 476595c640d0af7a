package exitcode

const (
	Success         = 0
	UsageError      = 1
	ValidationError = 2
	DBConnError     = 3
	MigrationError  = 4
	ServeError      = 5
	ImportError     = 6
	ExportError     = 7
)
