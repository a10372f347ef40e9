// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package corpus

import (
	"context"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/edsrzf/mmap-go"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/encoding/charmap"
)

// 🚫 ErrDecoding marks bytes that could not be decoded as corpus text
var ErrDecoding = errors.New("decoding failure")

// mmapThreshold is the file size above which files are mapped instead
// of read. Scanned broadsheet pages routinely run to tens of megabytes
// of OCR text.
var mmapThreshold int64 = 8 << 20

// 📖 Reader loads corpus files and decodes them to UTF-8. Decoding is
// strict: bytes that are not valid in the configured encoding surface
// as ErrDecoding rather than silently turning into replacement runes.
type Reader struct {
	name    string
	cm      *charmap.Charmap // nil means the corpus is already UTF-8
	maxSize int64
}

// 🏭 NewReader builds a Reader for the named encoding. Supported names
// are utf-8 (the default), latin-1, and windows-1252. maxSize <= 0
// disables the size guard.
func NewReader(encoding string, maxSize int64) (*Reader, error) {
	name := strings.ToLower(strings.TrimSpace(encoding))
	r := &Reader{name: name, maxSize: maxSize}
	switch name {
	case "", "utf-8", "utf8":
		r.name = "utf-8"
	case "latin-1", "latin1", "iso-8859-1":
		r.name = "latin-1"
		r.cm = charmap.ISO8859_1
	case "windows-1252", "cp1252":
		r.name = "windows-1252"
		r.cm = charmap.Windows1252
	default:
		return nil, errors.Errorf("unsupported corpus encoding %q", encoding)
	}
	return r, nil
}

// Encoding returns the normalized encoding name.
func (r *Reader) Encoding() string {
	return r.name
}

// 📖 ReadFile loads one corpus file and returns its decoded text.
// Files at or above mmapThreshold are memory mapped for the duration
// of the decode. An empty file yields an empty string, not an error.
func (r *Reader) ReadFile(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.Errorf("reading %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", errors.Errorf("reading %s: %w", path, err)
	}
	if r.maxSize > 0 && info.Size() > r.maxSize {
		return "", errors.Errorf("reading %s: file is %d bytes, limit is %d", path, info.Size(), r.maxSize)
	}
	if info.Size() == 0 {
		return "", nil
	}

	if info.Size() >= mmapThreshold {
		return r.readMapped(ctx, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Errorf("reading %s: %w", path, err)
	}
	return r.decode(path, data)
}

func (r *Reader) readMapped(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	mapped, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return "", errors.Errorf("mapping %s: %w", path, err)
	}
	defer mapped.Unmap()

	zerolog.Ctx(ctx).Debug().
		Str("file", path).
		Int("bytes", len(mapped)).
		Msg("memory mapped large corpus file")

	// decode copies out of the mapping, so the string survives Unmap.
	return r.decode(path, mapped)
}

func (r *Reader) decode(path string, data []byte) (string, error) {
	if r.cm == nil {
		if off, ok := firstInvalidUTF8(data); ok {
			return "", errors.Errorf("%s: invalid utf-8 at byte %d: %w", path, off, ErrDecoding)
		}
		return string(data), nil
	}

	// Byte-wise decode so unmapped bytes fail instead of turning into
	// replacement runes. windows-1252 has five undefined bytes.
	var out strings.Builder
	out.Grow(len(data))
	for i, b := range data {
		ru := r.cm.DecodeByte(b)
		if ru == utf8.RuneError {
			return "", errors.Errorf("%s: byte 0x%02X at offset %d has no mapping in %s: %w",
				path, b, i, r.name, ErrDecoding)
		}
		out.WriteRune(ru)
	}
	return out.String(), nil
}

func firstInvalidUTF8(data []byte) (int, bool) {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i, true
		}
		i += size
	}
	return 0, false
}
