package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newDumpCmd() *cobra.Command {
	var (
		offset int64
		length int
	)
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Hex dump part of a file, e.g. the superblock of a written HDF5 file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dumpFile(cmd.OutOrStdout(), args[0], offset, length)
		},
	}
	cmd.Flags().Int64Var(&offset, "offset", 0, "offset in file to start dumping from")
	cmd.Flags().IntVar(&length, "length", 128, "number of bytes to dump")
	return cmd
}

func dumpFile(w io.Writer, path string, offset int64, length int) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if offset < 0 || offset >= size {
		return fmt.Errorf("invalid offset %d (file size %d)", offset, size)
	}
	if length < 1 {
		return fmt.Errorf("invalid length %d", length)
	}

	n := int64(length)
	if rest := size - offset; n > rest {
		n = rest
	}
	buf := make([]byte, n)
	if _, err := f.ReadAt(buf, offset); err != nil && err != io.EOF {
		return fmt.Errorf("read %s: %w", path, err)
	}

	fmt.Fprintf(w, "%d bytes at offset 0x%x of %s (size %d):\n", n, offset, path, size)
	hexdump(w, buf, offset)
	return nil
}

// hexdump writes buf 16 bytes per line with an ASCII column.
func hexdump(w io.Writer, buf []byte, base int64) {
	for i := 0; i < len(buf); i += 16 {
		chunk := buf[i:min(i+16, len(buf))]

		fmt.Fprintf(w, "%08x: ", base+int64(i))
		for j := 0; j < 16; j++ {
			if j < len(chunk) {
				fmt.Fprintf(w, "%02x ", chunk[j])
			} else {
				fmt.Fprint(w, "   ")
			}
			if j == 7 {
				fmt.Fprint(w, " ")
			}
		}
		fmt.Fprint(w, " |")
		for _, b := range chunk {
			if b >= 32 && b <= 126 {
				fmt.Fprintf(w, "%c", b)
			} else {
				fmt.Fprint(w, ".")
			}
		}
		fmt.Fprintln(w, "|")
	}
}
