/*
 * files.go, part of godefect.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package defect

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

//Files with this extension are compressed with z-standard.
const ZstdExt = ".zst"

//*zstd.Decoder doesn't implement io.ReadCloser, as its Close returns nothing.
type zstdReadCloser struct {
	*zstd.Decoder
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}

//NewFileWriter creates the file name, and returns a WriteCloser for it. If name ends in
//ZstdExt, the returned writer compresses its input with zstd. The caller must Close it,
//which also closes the file.
func NewFileWriter(name string) (io.WriteCloser, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(name, ZstdExt) {
		return f, nil
	}
	z, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		f.Close()
		return nil, NewError("can't start zstd compression for "+name+": "+err.Error(), "NewFileWriter", true)
	}
	return &stackedCloser{WriteCloser: z, under: f}, nil
}

type stackedCloser struct {
	io.WriteCloser
	under io.Closer
}

func (s *stackedCloser) Close() error {
	err := s.WriteCloser.Close()
	err2 := s.under.Close()
	if err != nil {
		return err
	}
	return err2
}

type stackedReadCloser struct {
	io.ReadCloser
	under io.Closer
}

func (s *stackedReadCloser) Close() error {
	s.ReadCloser.Close()
	return s.under.Close()
}

//NewFileReader opens the file name and returns a ReadCloser for it. Files ending
//in ZstdExt are decompressed on the fly.
func NewFileReader(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(name, ZstdExt) {
		return f, nil
	}
	d, err := zstd.NewReader(bufio.NewReader(f))
	if err != nil {
		f.Close()
		return nil, NewError("can't read zstd stream from "+name+": "+err.Error(), "NewFileReader", true)
	}
	return &stackedReadCloser{ReadCloser: zstdReadCloser{d}, under: f}, nil
}

//WriteJSON writes v, JSON-encoded, to the file name. The file is zstd-compressed if
//name ends in ZstdExt.
func WriteJSON(name string, v interface{}) error {
	w, err := NewFileWriter(name)
	if err != nil {
		return ErrDecorate(err, "WriteJSON")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		w.Close()
		return ErrDecorate(err, "WriteJSON "+name)
	}
	return w.Close()
}

//ReadJSON decodes the JSON content of the file name into v. The file is decompressed
//if name ends in ZstdExt.
func ReadJSON(name string, v interface{}) error {
	r, err := NewFileReader(name)
	if err != nil {
		return ErrDecorate(err, "ReadJSON")
	}
	defer r.Close()
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return ErrDecorate(err, "ReadJSON "+name)
	}
	return nil
}
