package form

import (
	"strconv"
	"strings"
)

// AcceptedFileTypes is the extension allowlist for every file input,
// matched case-insensitively.
const AcceptedFileTypes = ".pdf,.doc,.docx,.md,.txt,.csv,.xlsx"

// File is one selected file kept in the form state until removed or
// submitted.
type File struct {
	Name        string
	Size        int64
	ContentType string
	Data        []byte
}

func acceptedExtension(name string) bool {
	ext := ""
	if dot := strings.LastIndex(name, "."); dot >= 0 {
		ext = strings.ToLower(name[dot:])
	}
	for _, accepted := range strings.Split(AcceptedFileTypes, ",") {
		if ext == strings.TrimSpace(strings.ToLower(accepted)) {
			return true
		}
	}
	return false
}

// AddFiles merges a selection into the field's current files. Files with a
// disallowed extension are dropped, and the merge is deduplicated by
// name+size so re-selecting the same file is a no-op.
func (f *Form) AddFiles(field string, files ...File) {
	existing := f.files[field]
	seen := make(map[string]bool, len(existing))
	dedupeKey := func(file File) string {
		return file.Name + "::" + strconv.FormatInt(file.Size, 10)
	}
	for _, file := range existing {
		seen[dedupeKey(file)] = true
	}

	next := existing
	for _, file := range files {
		if !acceptedExtension(file.Name) {
			continue
		}
		key := dedupeKey(file)
		if seen[key] {
			continue
		}
		seen[key] = true
		next = append(next, file)
	}

	f.files[field] = next
	f.counts[field] = len(next)
}

// RemoveFile deletes one file from a field's selection by index. The file
// is forgotten entirely; it will not appear in the submission.
func (f *Form) RemoveFile(field string, index int) {
	current := f.files[field]
	if index < 0 || index >= len(current) {
		return
	}
	next := append(append([]File{}, current[:index]...), current[index+1:]...)
	f.files[field] = next
	f.counts[field] = len(next)
}

// ClearFiles drops every file selected for one field.
func (f *Form) ClearFiles(field string) {
	f.files[field] = nil
	f.counts[field] = 0
}

// ClearAllFiles drops every selection on the form.
func (f *Form) ClearAllFiles() {
	f.files = make(map[string][]File)
	f.counts = make(map[string]int)
}

// Files returns the current selection for a field.
func (f *Form) Files(field string) []File {
	return f.files[field]
}

// FileCount returns the number of files attached to a field.
func (f *Form) FileCount(field string) int {
	return f.counts[field]
}
