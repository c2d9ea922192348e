package config

const SourceFileExt = ".bern"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".bern", ".bn"}

// DefaultStorePath is the SQLite database training runs are recorded to when
// the training config does not name one.
const DefaultStorePath = "bern_runs.sqlite3"

// HistoryFileName is the REPL history file, stored in the user's home
// directory.
const HistoryFileName = ".bern_history"
