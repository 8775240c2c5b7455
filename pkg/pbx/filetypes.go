package pbx

import (
	"path/filepath"
	"strings"
)

const defaultFileType = "text"

var fileTypeByExtension = map[string]string{
	"a":           "archive.ar",
	"app":         "wrapper.application",
	"appex":       "wrapper.app-extension",
	"bundle":      "wrapper.plug-in",
	"dylib":       "compiled.mach-o.dylib",
	"framework":   "wrapper.framework",
	"h":           "sourcecode.c.h",
	"m":           "sourcecode.c.objc",
	"markdown":    "text",
	"pch":         "sourcecode.c.h",
	"plist":       "text.plist.xml",
	"sh":          "text.script.sh",
	"strings":     "text.plist.strings",
	"swift":       "sourcecode.swift",
	"tbd":         "sourcecode.text-based-dylib-definition",
	"xcassets":    "folder.assetcatalog",
	"xcconfig":    "text.xcconfig",
	"xcdatamodel": "wrapper.xcdatamodel",
	"xib":         "file.xib",
}

// fileTypeFor maps a file name to the lastKnownFileType token recorded in its
// PBXFileReference entry. Unrecognized extensions fall back to plain text.
func fileTypeFor(name string) string {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if t, ok := fileTypeByExtension[ext]; ok {
		return t
	}
	return defaultFileType
}
