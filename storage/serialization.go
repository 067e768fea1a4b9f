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


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/earncall/core"
)

// Values are encoded as a flat sequence of mus fields in declaration order.
// Timestamps are stored as Unix microseconds and decoded in UTC.

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	r := reader{bs: data}
	id := core.ID(r.uint64())
	return id, r.finish()
}

// MarshalCompany serializes a Company to bytes.
func MarshalCompany(c *core.Company) []byte {
	size := varint.Uint64.Size(uint64(c.Id)) +
		ord.String.Size(c.Name) +
		ord.String.Size(c.Ticker) +
		ord.String.Size(c.Sector) +
		timeSize(c.InsertedAt)

	w := writer{bs: make([]byte, size)}
	w.uint64(uint64(c.Id))
	w.string(c.Name)
	w.string(c.Ticker)
	w.string(c.Sector)
	w.time(c.InsertedAt)
	return w.bs
}

// UnmarshalCompany deserializes a Company from bytes.
func UnmarshalCompany(data []byte) (*core.Company, error) {
	r := reader{bs: data}
	c := &core.Company{
		Id:         core.ID(r.uint64()),
		Name:       r.string(),
		Ticker:     r.string(),
		Sector:     r.string(),
		InsertedAt: r.time(),
	}
	if err := r.finish(); err != nil {
		return nil, err
	}
	return c, nil
}

// MarshalTranscriptRecord serializes a TranscriptRecord to bytes.
// CompanyName is derived at query time and is not encoded.
func MarshalTranscriptRecord(rec *core.TranscriptRecord) []byte {
	size := varint.Uint64.Size(uint64(rec.Id)) +
		varint.Uint64.Size(uint64(rec.CompanyId)) +
		timeSize(rec.Date) +
		ord.String.Size(rec.Text) +
		ord.Bool.Size(rec.SentimentScore != nil) +
		timeSize(rec.InsertedAt)
	if rec.SentimentScore != nil {
		size += raw.Float64.Size(*rec.SentimentScore)
	}

	w := writer{bs: make([]byte, size)}
	w.uint64(uint64(rec.Id))
	w.uint64(uint64(rec.CompanyId))
	w.time(rec.Date)
	w.string(rec.Text)
	w.bool(rec.SentimentScore != nil)
	if rec.SentimentScore != nil {
		w.float64(*rec.SentimentScore)
	}
	w.time(rec.InsertedAt)
	return w.bs
}

// UnmarshalTranscriptRecord deserializes a TranscriptRecord from bytes.
func UnmarshalTranscriptRecord(data []byte) (*core.TranscriptRecord, error) {
	r := reader{bs: data}
	rec := &core.TranscriptRecord{
		Id:        core.ID(r.uint64()),
		CompanyId: core.ID(r.uint64()),
		Date:      r.time(),
		Text:      r.string(),
	}
	if r.bool() {
		score := r.float64()
		rec.SentimentScore = &score
	}
	rec.InsertedAt = r.time()
	if err := r.finish(); err != nil {
		return nil, err
	}
	return rec, nil
}

// MarshalPriceBar serializes a PriceBar to bytes.
func MarshalPriceBar(bar *core.PriceBar) []byte {
	size := varint.Uint64.Size(uint64(bar.Id)) +
		varint.Uint64.Size(uint64(bar.CompanyId)) +
		timeSize(bar.Date) +
		raw.Float64.Size(bar.Open) +
		raw.Float64.Size(bar.Close) +
		raw.Float64.Size(bar.High) +
		raw.Float64.Size(bar.Low) +
		varint.Int64.Size(bar.Volume) +
		timeSize(bar.InsertedAt)

	w := writer{bs: make([]byte, size)}
	w.uint64(uint64(bar.Id))
	w.uint64(uint64(bar.CompanyId))
	w.time(bar.Date)
	w.float64(bar.Open)
	w.float64(bar.Close)
	w.float64(bar.High)
	w.float64(bar.Low)
	w.int64(bar.Volume)
	w.time(bar.InsertedAt)
	return w.bs
}

// UnmarshalPriceBar deserializes a PriceBar from bytes.
func UnmarshalPriceBar(data []byte) (*core.PriceBar, error) {
	r := reader{bs: data}
	bar := &core.PriceBar{
		Id:         core.ID(r.uint64()),
		CompanyId:  core.ID(r.uint64()),
		Date:       r.time(),
		Open:       r.float64(),
		Close:      r.float64(),
		High:       r.float64(),
		Low:        r.float64(),
		Volume:     r.int64(),
		InsertedAt: r.time(),
	}
	if err := r.finish(); err != nil {
		return nil, err
	}
	return bar, nil
}

func timeSize(t time.Time) int {
	return varint.Int64.Size(t.UnixMicro())
}

// writer marshals fields into a buffer sized in advance.
type writer struct {
	bs []byte
	n  int
}

func (w *writer) uint64(v uint64)   { w.n += varint.Uint64.Marshal(v, w.bs[w.n:]) }
func (w *writer) int64(v int64)     { w.n += varint.Int64.Marshal(v, w.bs[w.n:]) }
func (w *writer) string(v string)   { w.n += ord.String.Marshal(v, w.bs[w.n:]) }
func (w *writer) bool(v bool)       { w.n += ord.Bool.Marshal(v, w.bs[w.n:]) }
func (w *writer) float64(v float64) { w.n += raw.Float64.Marshal(v, w.bs[w.n:]) }
func (w *writer) time(t time.Time)  { w.int64(t.UnixMicro()) }

// reader unmarshals fields in order. After the first error every later
// read is a no-op returning the zero value.
type reader struct {
	bs  []byte
	n   int
	err error
}

func (r *reader) uint64() uint64 {
	if r.err != nil {
		return 0
	}
	v, n, err := varint.Uint64.Unmarshal(r.bs[r.n:])
	r.n += n
	r.err = err
	return v
}

func (r *reader) int64() int64 {
	if r.err != nil {
		return 0
	}
	v, n, err := varint.Int64.Unmarshal(r.bs[r.n:])
	r.n += n
	r.err = err
	return v
}

func (r *reader) string() string {
	if r.err != nil {
		return ""
	}
	v, n, err := ord.String.Unmarshal(r.bs[r.n:])
	r.n += n
	r.err = err
	return v
}

func (r *reader) bool() bool {
	if r.err != nil {
		return false
	}
	v, n, err := ord.Bool.Unmarshal(r.bs[r.n:])
	r.n += n
	r.err = err
	return v
}

func (r *reader) float64() float64 {
	if r.err != nil {
		return 0
	}
	v, n, err := raw.Float64.Unmarshal(r.bs[r.n:])
	r.n += n
	r.err = err
	return v
}

func (r *reader) time() time.Time {
	v := r.int64()
	if r.err != nil {
		return time.Time{}
	}
	return time.UnixMicro(v).UTC()
}

func (r *reader) finish() error {
	if r.err != nil {
		return fmt.Errorf("%w: %w", ErrSerializationFailed, r.err)
	}
	if r.n != len(r.bs) {
		return fmt.Errorf("%w: %w: %d unread bytes", ErrSerializationFailed, ErrTrailingData, len(r.bs)-r.n)
	}
	return nil
}
