package internal

import (
	"archive/tar"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/jedib0t/go-pretty/table"
	streamJSON "github.com/wal-g/json"
	"github.com/wal-g/twrp2tar/internal/twrp"
	"golang.org/x/time/rate"
)

// EntryInfo describes one backup entry as it is stored, before translation.
type EntryInfo struct {
	Index    int       `json:"index"`
	Type     string    `json:"type"`
	Mode     string    `json:"mode"`
	Owner    string    `json:"owner"`
	Group    string    `json:"group"`
	Size     int64     `json:"size"`
	ModTime  time.Time `json:"mod_time"`
	Path     string    `json:"path"`
	Linkname string    `json:"link,omitempty"`
	Device   string    `json:"device,omitempty"`
}

var entryTypeNames = map[byte]string{
	tar.TypeReg:           "file",
	tar.TypeLink:          "hardlink",
	tar.TypeSymlink:       "symlink",
	tar.TypeChar:          "char",
	tar.TypeBlock:         "block",
	tar.TypeDir:           "dir",
	tar.TypeFifo:          "fifo",
	tar.TypeGNUSparse:     "sparse",
	tar.TypeXGlobalHeader: "pax-global",
}

func entryTypeName(typeflag byte) string {
	if name, ok := entryTypeNames[typeflag]; ok {
		return name
	}
	return strconv.QuoteRune(rune(typeflag))
}

func NewEntryInfo(entry *twrp.Entry) EntryInfo {
	header := entry.Header
	info := EntryInfo{
		Index:    entry.Index,
		Type:     entryTypeName(header.Typeflag),
		Mode:     header.FileInfo().Mode().String(),
		Owner:    header.Uname,
		Group:    header.Gname,
		Size:     header.Size,
		ModTime:  header.ModTime.UTC(),
		Path:     header.Name,
		Linkname: header.Linkname,
	}
	if info.Owner == "" {
		info.Owner = strconv.Itoa(header.Uid)
	}
	if info.Group == "" {
		info.Group = strconv.Itoa(header.Gid)
	}
	if header.Typeflag == tar.TypeBlock || header.Typeflag == tar.TypeChar {
		info.Device = fmt.Sprintf("%d,%d", header.Devmajor, header.Devminor)
	}
	return info
}

// HandleList reads the entry headers of a backup without converting it.
func HandleList(ctx context.Context, input io.Reader, key []byte, limiter *rate.Limiter) ([]EntryInfo, error) {
	stream, _, err := openBackup(ctx, input, key, limiter)
	if err != nil {
		return nil, err
	}
	var entries []EntryInfo
	err = stream.IterateEntries(func(entry *twrp.Entry) twrp.CallbackResult {
		entries = append(entries, NewEntryInfo(entry))
		return twrp.Continue
	})
	return entries, err
}

func WriteEntryList(entries []EntryInfo, output io.Writer) {
	writer := tabwriter.NewWriter(output, 0, 0, 1, ' ', 0)
	defer writer.Flush()
	fmt.Fprintln(writer, "type\tmode\towner\tsize\tmodified\tpath")
	for _, e := range entries {
		_, _ = fmt.Fprintf(writer, "%v\t%v\t%v/%v\t%v\t%v\t%v\n",
			e.Type, e.Mode, e.Owner, e.Group, e.Size, e.ModTime.Format(time.RFC3339), describePath(e))
	}
}

func WritePrettyEntryList(entries []EntryInfo, output io.Writer) {
	writer := table.NewWriter()
	writer.SetOutputMirror(output)
	defer writer.Render()
	writer.AppendHeader(table.Row{"#", "Type", "Mode", "Owner", "Size", "Modified", "Path"})
	for _, e := range entries {
		writer.AppendRow(table.Row{e.Index, e.Type, e.Mode, e.Owner + "/" + e.Group, e.Size,
			e.ModTime.Format(time.RFC850), describePath(e)})
	}
}

func describePath(e EntryInfo) string {
	switch {
	case e.Linkname != "":
		return e.Path + " -> " + e.Linkname
	case e.Device != "":
		return e.Path + " (" + e.Device + ")"
	}
	return e.Path
}

// WriteAsJSON streams data to output, or indents it in memory first when pretty is set.
func WriteAsJSON(data interface{}, output io.Writer, pretty bool) error {
	if !pretty {
		return streamJSON.Marshal(data, nopWriteCloser{output})
	}
	bytes, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return err
	}
	_, err = output.Write(bytes)
	return err
}

// nopWriteCloser adapts an io.Writer to the io.WriteCloser streamJSON.Marshal expects.
type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
