package model

// VersionInfo contains version and feature information for the application.
type VersionInfo struct {
	AppVersion     string          `json:"app_version"`
	DbVersion      string          `json:"db_version"`
	StorageBackend string          `json:"storage_backend"`
	Features       map[string]bool `json:"features"`
}
