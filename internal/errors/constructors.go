package errors

// Convenience constructors for the build error taxonomy.

// Config errors

func ConfigNotFound(path string) *SiteError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *SiteError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Content errors

// MalformedFrontMatter reports a metadata block that is present but unparsable.
// Per-item: the build continues with remaining items.
func MalformedFrontMatter(path string, cause error) *SiteError {
	return Wrap(cause, CategoryContent, SeverityError, "malformed front matter").
		WithContext("path", path)
}

// UnknownLayout reports an item referencing a layout that does not exist.
// Per-item: the item is skipped, remaining items still render.
func UnknownLayout(layout, path string) *SiteError {
	return New(CategoryLayout, SeverityError, "unknown layout").
		WithContext("layout", layout).
		WithContext("path", path)
}

// PermalinkCollision reports two items resolving to the same output path.
// Structural: the build halts before any page is written.
func PermalinkCollision(permalink, first, second string) *SiteError {
	return New(CategoryPath, SeverityFatal, "permalink collision").
		WithContext("permalink", permalink).
		WithContext("first", first).
		WithContext("second", second)
}

// Filesystem and state errors

func WriteFailed(path string, cause error) *SiteError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "write failed").
		WithContext("path", path)
}

func StateError(operation string, cause error) *SiteError {
	return Wrap(cause, CategoryState, SeverityError, "build state operation failed").
		WithContext("operation", operation)
}
