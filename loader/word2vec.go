// Copyright 2025 Poiesic Systems
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


package loader

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Format identifies a word2vec serialization.
type Format string

const (
	// FormatText is one "word v1 v2 ..." row per line with an optional "<count> <dim>" header.
	FormatText Format = "text"
	// FormatBinary is the original word2vec binary layout with little-endian float32 values.
	FormatBinary Format = "binary"
)

// ParseFormat maps a format name to a Format. An empty name selects FormatText.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatText:
		return FormatText, nil
	case FormatBinary, "bin":
		return FormatBinary, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Header is the "<count> <dim>" line that opens a word2vec file.
// Zero values mean the file had no header.
type Header struct {
	Count     int
	Dimension int
}

// maxRowBytes bounds a single text row.
const maxRowBytes = 4 << 20

// ReadWord2Vec parses the word2vec text format and calls fn for every row in
// file order. Every row must have the dimension of the first one. An error
// returned by fn stops the read and is returned unchanged.
func ReadWord2Vec(r io.Reader, fn func(word string, vec []float32) error) (Header, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxRowBytes)

	var header Header
	dim := 0
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		if line == 1 && len(fields) == 2 {
			count, errCount := strconv.Atoi(fields[0])
			d, errDim := strconv.Atoi(fields[1])
			if errCount == nil && errDim == nil {
				header = Header{Count: count, Dimension: d}
				dim = d
				continue
			}
		}

		if len(fields) < 2 {
			return header, fmt.Errorf("%w: line %d has no vector", ErrMalformedRow, line)
		}
		vec := make([]float32, len(fields)-1)
		for i, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return header, fmt.Errorf("%w: line %d: %w", ErrMalformedRow, line, err)
			}
			vec[i] = float32(v)
		}

		if dim == 0 {
			dim = len(vec)
		}
		if len(vec) != dim {
			return header, fmt.Errorf("%w: line %d has %d values, expected %d", ErrDimensionMismatch, line, len(vec), dim)
		}

		if err := fn(fields[0], vec); err != nil {
			return header, err
		}
	}
	if err := scanner.Err(); err != nil {
		return header, fmt.Errorf("read model: %w", err)
	}
	return header, nil
}

// ReadWord2VecBinary parses the word2vec binary format: a text header line
// followed by Count records of "word<space>" and Dimension float32 values.
func ReadWord2VecBinary(r io.Reader, fn func(word string, vec []float32) error) (Header, error) {
	br := bufio.NewReaderSize(r, 1<<16)

	headerLine, err := br.ReadString('\n')
	if err != nil {
		return Header{}, fmt.Errorf("%w: missing header: %w", ErrMalformedRow, err)
	}
	var header Header
	if _, err := fmt.Sscanf(strings.TrimSpace(headerLine), "%d %d", &header.Count, &header.Dimension); err != nil {
		return Header{}, fmt.Errorf("%w: bad header %q: %w", ErrMalformedRow, headerLine, err)
	}
	if header.Dimension <= 0 {
		return header, fmt.Errorf("%w: dimension %d", ErrMalformedRow, header.Dimension)
	}

	raw := make([]byte, 4*header.Dimension)
	for i := 0; i < header.Count; i++ {
		word, err := br.ReadString(' ')
		if err != nil {
			if errors.Is(err, io.EOF) && strings.TrimSpace(word) == "" {
				return header, nil
			}
			return header, fmt.Errorf("%w: record %d: %w", ErrMalformedRow, i, err)
		}
		word = strings.TrimLeft(strings.TrimSuffix(word, " "), "\n")

		if _, err := io.ReadFull(br, raw); err != nil {
			return header, fmt.Errorf("%w: record %d %q: %w", ErrDimensionMismatch, i, word, err)
		}
		vec := make([]float32, header.Dimension)
		for j := range vec {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*j:]))
		}

		if err := fn(word, vec); err != nil {
			return header, err
		}
	}
	return header, nil
}

// Read dispatches to the reader for format.
func Read(r io.Reader, format Format, fn func(word string, vec []float32) error) (Header, error) {
	switch format {
	case FormatBinary:
		return ReadWord2VecBinary(r, fn)
	case FormatText, "":
		return ReadWord2Vec(r, fn)
	}
	return Header{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// StripPOSTag removes a part-of-speech suffix such as "_NOUN" from a model key.
// Keys without an all-uppercase suffix are returned unchanged.
func StripPOSTag(word string) string {
	i := strings.LastIndexByte(word, '_')
	if i <= 0 || i == len(word)-1 {
		return word
	}
	for _, r := range word[i+1:] {
		if r < 'A' || r > 'Z' {
			return word
		}
	}
	return word[:i]
}
