package errors

import (
	"strings"
	"unicode"
)

const (
	maxNameLength = 256
	maxTagLength  = 64
	maxPathLength = 4096
)

// ValidateName validates a game object, scene or project name.
//
// Names are free text shown in the hierarchy, so the rules only reject what
// would corrupt the display or the project file:
//   - No empty or whitespace-only names
//   - No control characters (newlines included)
//   - Maximum length of 256 bytes
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidName, "name cannot be empty")
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "name too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "name contains control characters")
		}
	}
	return nil
}

// ValidateTag validates a tag before it is attached to an object or project.
// Tags are single tokens: no whitespace, no control characters, at most 64 bytes.
func ValidateTag(tag string) error {
	if tag == "" {
		return New(ErrCodeInvalidTag, "tag cannot be empty")
	}
	if len(tag) > maxTagLength {
		return New(ErrCodeInvalidTag, "tag too long (max %d characters)", maxTagLength)
	}
	for _, r := range tag {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return New(ErrCodeInvalidTag, "tag %q cannot contain whitespace", tag)
		}
	}
	return nil
}

// ValidatePath validates a project location handed to a persistence backend.
// Backends interpret the path (directory, key, document id), so only
// structurally broken values are rejected here.
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateAssetName validates the file name of an imported asset.
// It must be a plain basename so it cannot escape the project's asset directory.
func ValidateAssetName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "asset name cannot be empty")
	}
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPath, "asset name cannot contain path separators")
	}
	if name == "." || name == ".." || strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidPath, "asset name cannot be a hidden file")
	}
	return nil
}
