// Copyright (c) 2024 Neomantra Corp

package splitter_test

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"
	"time"

	dbn "github.com/databento/dbn-sub000"
	"github.com/databento/dbn-sub000/splitter"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSplitter(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "splitter suite")
}

// putOhlcvRecord appends a synthetic OhlcvMsg at instrumentID/tsEvent onto buf.
func putOhlcvRecord(buf *bytes.Buffer, instrumentID uint32, tsEvent uint64, open, volume int64) {
	rec := make([]byte, dbn.OhlcvMsg_Size)
	rec[0] = uint8(dbn.OhlcvMsg_Size / 4)
	rec[1] = uint8(dbn.RType_Ohlcv1S)
	binary.LittleEndian.PutUint32(rec[4:8], instrumentID)
	binary.LittleEndian.PutUint64(rec[8:16], tsEvent)
	body := rec[dbn.RHeader_Size:]
	binary.LittleEndian.PutUint64(body[0:8], uint64(open))
	binary.LittleEndian.PutUint64(body[8:16], uint64(open))
	binary.LittleEndian.PutUint64(body[16:24], uint64(open))
	binary.LittleEndian.PutUint64(body[24:32], uint64(open))
	binary.LittleEndian.PutUint64(body[32:40], uint64(volume))
	buf.Write(rec)
}

// routeFragment decodes every record in a synthetic OHLCV fragment (no
// metadata prelude), calling route on each one immediately — a RecordRef is
// only valid until the next Process call, so it must be consumed in-loop.
func routeFragment(raw []byte, route func(dbn.RecordRef) error) int {
	dec := dbn.NewDecoder(dbn.DecoderConfig{
		SkipMetadata:    true,
		InputDBNVersion: dbn.DbnVersion2,
	})
	space := dec.Space(len(raw))
	copy(space, raw)
	dec.Fill(len(raw))

	count := 0
	for {
		result, err := dec.Process()
		Expect(err).To(BeNil())
		switch result {
		case dbn.ResultRecord:
			Expect(route(dec.LastRecord())).To(Succeed())
			count++
		case dbn.ResultReadMore:
			return count
		}
	}
}

type nopWriteCloser struct{ *bytes.Buffer }

func (nopWriteCloser) Close() error { return nil }

var _ = Describe("SchemaSplitter", func() {
	It("routes records to separate sub-encoders by schema", func() {
		var src bytes.Buffer
		putOhlcvRecord(&src, 100, 1_600_000_000_000_000_000, 10, 1)

		sinks := map[string]*bytes.Buffer{}
		factory := splitter.WriterFactory(func(key string) (io.WriteCloser, error) {
			buf := &bytes.Buffer{}
			sinks[key] = buf
			return nopWriteCloser{buf}, nil
		})

		s := splitter.NewSchemaSplitter(splitter.NoSchemaSkip, nil, factory)
		count := routeFragment(src.Bytes(), s.Route)
		Expect(count).To(Equal(1))
		Expect(sinks).To(HaveLen(1))
	})
})

var _ = Describe("TimeSplitter", func() {
	It("buckets records into one sub-encoder per day", func() {
		day1 := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		day2 := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)

		var src bytes.Buffer
		putOhlcvRecord(&src, 100, uint64(day1.UnixNano()), 10, 1)
		putOhlcvRecord(&src, 100, uint64(day2.UnixNano()), 20, 1)

		sinks := map[string]*bytes.Buffer{}
		factory := splitter.WriterFactory(func(key string) (io.WriteCloser, error) {
			buf := &bytes.Buffer{}
			sinks[key] = buf
			return nopWriteCloser{buf}, nil
		})

		s := splitter.NewTimeSplitter(splitter.SplitDay, nil, factory)
		routeFragment(src.Bytes(), s.Route)
		Expect(sinks).To(HaveLen(2))
		Expect(sinks).To(HaveKey("20240101"))
		Expect(sinks).To(HaveKey("20240102"))
	})
})
