// Package pbx registers source files with an Xcode project.pbxproj manifest.
//
// The manifest is treated as opaque text: entries are inserted at four
// literal-substring anchor sites (the PBXFileReference and PBXBuildFile
// sections, the root group's children list and the Sources build phase's
// files list). Everything outside the insertion points is preserved
// byte-for-byte.
package pbx

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/leom731/pbxpatch/pkg/utils/fileutils"
)

const (
	fileRefBegin   = "/* Begin PBXFileReference section */"
	fileRefEnd     = "/* End PBXFileReference section */"
	buildFileBegin = "/* Begin PBXBuildFile section */"
	buildFileEnd   = "/* End PBXBuildFile section */"

	sourcesPhaseMarker = "/* Sources */ = {"
	childrenOpen       = "children = ("
	filesOpen          = "files = ("
	listClose          = ");"
)

var (
	ErrProjectNotFound = errors.New("project file not found")
	ErrSectionMissing  = errors.New("section marker missing")
	ErrNoFiles         = errors.New("no files to register")
)

// Options configures a patch run.
type Options struct {
	// Group is the name of the root group whose children list receives the
	// new file references. Empty disables the group membership step.
	Group string
}

// Result reports what a patch run did.
type Result struct {
	// Entries holds the registered files in input order.
	Entries []Entry

	// BuildFilesUpdated is false when the PBXBuildFile end marker could not
	// be located and the build-file step was skipped.
	BuildFilesUpdated bool
	// GroupUpdated is false when the root group marker was absent.
	GroupUpdated bool
	// SourcesUpdated is false when the Sources build phase marker was absent.
	SourcesUpdated bool
}

// Patch registers files with the manifest at path. The file is read once and,
// only after every insertion has succeeded or been skipped, replaced atomically
// with the mutated text. On error the file on disk is untouched.
func Patch(path string, files []string, opts Options) (*Result, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}

	text, result, err := PatchText(string(data), files, opts)
	if err != nil {
		return nil, err
	}

	err = fileutils.AtomicWrite(path, func(w io.Writer) error {
		_, err := io.WriteString(w, text)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("writing project file: %w", err)
	}

	return result, nil
}

// PatchText applies the four insertions to text and returns the mutated copy.
// It is the pure core of Patch; callers that want a dry run use it directly.
func PatchText(text string, files []string, opts Options) (string, *Result, error) {
	if len(files) == 0 {
		return "", nil, ErrNoFiles
	}

	entries, err := newEntries(files)
	if err != nil {
		return "", nil, err
	}
	for i := range entries {
		entries[i].AlreadyListed = strings.Contains(text, " /* "+entries[i].Name+" */")
	}

	result := &Result{Entries: entries}

	text, err = insertFileReferences(text, entries)
	if err != nil {
		return "", nil, err
	}

	text, result.BuildFilesUpdated, err = insertBuildFiles(text, entries)
	if err != nil {
		return "", nil, err
	}

	text, result.GroupUpdated = insertGroupChildren(text, entries, opts.Group)
	text, result.SourcesUpdated = insertSourcesPhaseFiles(text, entries)

	return text, result, nil
}

// insertFileReferences adds one PBXFileReference declaration per entry
// immediately after the section's begin marker. Both section markers are
// mandatory.
func insertFileReferences(text string, entries []Entry) (string, error) {
	if !strings.Contains(text, fileRefBegin) || !strings.Contains(text, fileRefEnd) {
		return "", fmt.Errorf("%w: PBXFileReference", ErrSectionMissing)
	}

	var block strings.Builder
	block.WriteString("\n")
	for _, e := range entries {
		fmt.Fprintf(&block, "\t\t%s /* %s */ = {isa = PBXFileReference; lastKnownFileType = %s; path = %s; sourceTree = \"<group>\"; };\n",
			e.ReferenceID, e.Name, e.FileType, e.Name)
	}

	out, ok := insertAfter(text, fileRefBegin, block.String())
	if !ok {
		return "", fmt.Errorf("%w: PBXFileReference", ErrSectionMissing)
	}
	return out, nil
}

// insertBuildFiles adds one PBXBuildFile declaration per entry immediately
// after the section's begin marker. The begin marker is mandatory; an absent
// end marker skips this step and leaves text unchanged.
func insertBuildFiles(text string, entries []Entry) (string, bool, error) {
	if !strings.Contains(text, buildFileBegin) {
		return "", false, fmt.Errorf("%w: PBXBuildFile", ErrSectionMissing)
	}
	if !strings.Contains(text, buildFileEnd) {
		return text, false, nil
	}

	var block strings.Builder
	block.WriteString("\n")
	for _, e := range entries {
		fmt.Fprintf(&block, "\t\t%s /* %s in Sources */ = {isa = PBXBuildFile; fileRef = %s /* %s */; };\n",
			e.BuildID, e.Name, e.ReferenceID, e.Name)
	}

	out, ok := insertAfter(text, buildFileBegin, block.String())
	return out, ok, nil
}

// insertGroupChildren adds the new file references to the children list of
// the named root group. The group is located by its trailing comment marker;
// an absent marker skips the step.
func insertGroupChildren(text string, entries []Entry, group string) (string, bool) {
	if group == "" {
		return text, false
	}

	var block strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&block, "\t\t\t\t%s /* %s */,\n", e.ReferenceID, e.Name)
	}

	return insertBeforeListClose(text, group+" */ = {", childrenOpen, block.String())
}

// insertSourcesPhaseFiles adds the new build files to the files list of the
// Sources build phase. An absent marker skips the step.
func insertSourcesPhaseFiles(text string, entries []Entry) (string, bool) {
	var block strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&block, "\t\t\t\t%s /* %s in Sources */,\n", e.BuildID, e.Name)
	}

	return insertBeforeListClose(text, sourcesPhaseMarker, filesOpen, block.String())
}

// insertAfter inserts block immediately after the first occurrence of marker.
func insertAfter(text, marker, block string) (string, bool) {
	i := strings.Index(text, marker)
	if i < 0 {
		return text, false
	}
	at := i + len(marker)
	return text[:at] + block + text[at:], true
}

// insertBeforeListClose locates the first list opening token after marker and
// inserts block immediately before the list's closing token.
func insertBeforeListClose(text, marker, open, block string) (string, bool) {
	m := strings.Index(text, marker)
	if m < 0 {
		return text, false
	}
	o := strings.Index(text[m:], open)
	if o < 0 {
		return text, false
	}
	c := strings.Index(text[m+o:], listClose)
	if c < 0 {
		return text, false
	}
	at := m + o + c
	return text[:at] + block + text[at:], true
}
