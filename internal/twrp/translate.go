package twrp

import (
	"archive/tar"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/wal-g/twrp2tar/utility"
)

// Session is the state shared by every entry of one conversion.
// The zero value is ready to use.
type Session struct {
	// Processed counts entries that reached the writer.
	Processed int
	// AbsolutePathWarned is set by the first absolute path and never reset.
	AbsolutePathWarned bool
	// DroppedPAXRecords counts PAX records (xattrs, SELinux contexts) that were not carried over.
	DroppedPAXRecords int
	// SkippedEntries counts entries that are not files, such as PAX global headers.
	SkippedEntries int
}

const maxOwnerNameLength = 32

// paxRecordsKeptAsFields are PAX keys archive/tar folds into Header fields.
var paxRecordsKeptAsFields = map[string]bool{
	"path":     true,
	"linkpath": true,
	"size":     true,
	"uid":      true,
	"gid":      true,
	"uname":    true,
	"gname":    true,
	"mtime":    true,
	"atime":    true,
	"ctime":    true,
}

// TranslateHeader builds a GNU header for src. It never reuses src fields
// the writer computes itself, such as the checksum.
func TranslateHeader(src *tar.Header, session *Session) (*tar.Header, error) {
	name, err := translatePath(src.Name, session)
	if err != nil {
		return nil, err
	}

	header := &tar.Header{
		Typeflag: src.Typeflag,
		Name:     name,
		Mode:     src.Mode,
		Uid:      src.Uid,
		Gid:      src.Gid,
		Size:     src.Size,
		ModTime:  time.Unix(src.ModTime.Unix(), 0),
		Format:   tar.FormatGNU,
	}
	if header.Typeflag == tar.TypeGNUSparse {
		header.Typeflag = tar.TypeReg
	}

	if src.Linkname != "" {
		if err := checkField(src.Linkname, "link target", src.Name); err != nil {
			return nil, err
		}
		header.Linkname = src.Linkname
	}
	if isRepresentableName(src.Uname) {
		header.Uname = src.Uname
	}
	if isRepresentableName(src.Gname) {
		header.Gname = src.Gname
	}
	if header.Typeflag == tar.TypeBlock || header.Typeflag == tar.TypeChar {
		header.Devmajor = src.Devmajor
		header.Devminor = src.Devminor
	}

	for key := range src.PAXRecords {
		if !paxRecordsKeptAsFields[key] && !strings.HasPrefix(key, "GNU.sparse.") {
			session.DroppedPAXRecords++
		}
	}
	return header, nil
}

func translatePath(path string, session *Session) (string, error) {
	if err := checkField(path, "path", path); err != nil {
		return "", err
	}
	if !strings.HasPrefix(path, "/") {
		return path, nil
	}
	session.AbsolutePathWarned = true
	relative := utility.SanitizePath(path)
	if relative == "" {
		return "./", nil
	}
	return relative, nil
}

func checkField(value, field, entryName string) error {
	if value == "" {
		return NewIOError(nil, "entry has an empty %s", field)
	}
	if !utf8.ValidString(value) {
		return NewIOError(nil, "%s of entry %q is not valid UTF-8", field, entryName)
	}
	if strings.IndexByte(value, 0) >= 0 {
		return NewIOError(nil, "%s of entry %q contains a NUL byte", field, entryName)
	}
	return nil
}

// isRepresentableName reports whether an owner or group name fits the GNU header field.
func isRepresentableName(name string) bool {
	return name != "" && len(name) <= maxOwnerNameLength && utf8.ValidString(name) && strings.IndexByte(name, 0) < 0
}

// hasPayload reports whether the writer expects data after a header of this type.
func hasPayload(typeflag byte) bool {
	switch typeflag {
	case tar.TypeLink, tar.TypeSymlink, tar.TypeChar, tar.TypeBlock, tar.TypeDir, tar.TypeFifo:
		return false
	}
	return true
}
