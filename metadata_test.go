// Copyright (c) 2024 Neomantra Corp

package dbn_test

import (
	"bytes"
	"unsafe"

	"github.com/databento/dbn-sub000"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func sampleMetadata(version uint8) *dbn.Metadata {
	return &dbn.Metadata{
		VersionNum: version,
		Dataset:    "GLBX.MDP3",
		Schema:     dbn.Schema_Ohlcv1S,
		Start:      1609160400000000000,
		End:        1609200000000000000,
		Limit:      2,
		StypeIn:    dbn.SType_RawSymbol,
		StypeOut:   dbn.SType_InstrumentId,
		TsOut:      false,
		Symbols:    []string{"ESH1"},
		Mappings: []dbn.SymbolMapping{
			{
				RawSymbol: "ESH1",
				Intervals: []dbn.MappingInterval{
					{StartDate: 20201228, EndDate: 20201229, Symbol: "5482"},
				},
			},
		},
	}
}

var _ = Describe("Metadata", func() {
	Context("correctness", func() {
		It("fixed-size constants match the wire layout", func() {
			Expect(unsafe.Sizeof(dbn.RType_Error)).To(Equal(uintptr(1)))
			Expect(unsafe.Sizeof(dbn.SType_RawSymbol)).To(Equal(uintptr(1)))
			Expect(unsafe.Sizeof(dbn.NullSchema)).To(Equal(uintptr(2)))
			Expect(unsafe.Sizeof(dbn.MetadataPrefix{})).To(Equal(uintptr(dbn.Metadata_PrefixSize)))
			Expect(dbn.Metadata_DatasetCstrLen).To(Equal(16))
			Expect(dbn.MetadataHeaderV1_Size).To(Equal(dbn.MetadataHeaderV2_Size))
		})
	})

	Context("round trip", func() {
		for _, version := range []uint8{dbn.DbnVersion1, dbn.DbnVersion2, dbn.DbnVersion3} {
			version := version
			It("decodes what it encoded, for a given version", func() {
				var buf bytes.Buffer
				m := sampleMetadata(version)
				Expect(m.Write(&buf)).To(Succeed())

				decoded, err := dbn.ReadMetadata(&buf)
				Expect(err).To(BeNil())
				Expect(decoded.VersionNum).To(Equal(version))
				Expect(decoded.Dataset).To(Equal("GLBX.MDP3"))
				Expect(decoded.Schema).To(Equal(dbn.Schema_Ohlcv1S))
				Expect(decoded.Start).To(Equal(uint64(1609160400000000000)))
				Expect(decoded.End).To(Equal(uint64(1609200000000000000)))
				Expect(decoded.Limit).To(Equal(uint64(2)))
				Expect(decoded.StypeIn).To(Equal(dbn.SType_RawSymbol))
				Expect(decoded.StypeOut).To(Equal(dbn.SType_InstrumentId))
				Expect(decoded.TsOut).To(BeFalse())
				if version == dbn.DbnVersion1 {
					Expect(decoded.SymbolCstrLen).To(Equal(uint16(dbn.MetadataV1_SymbolCstrLen)))
				} else {
					Expect(decoded.SymbolCstrLen).To(Equal(uint16(dbn.MetadataV2_SymbolCstrLen)))
				}
				Expect(decoded.Symbols).To(Equal([]string{"ESH1"}))
				Expect(decoded.Partial).To(BeEmpty())
				Expect(decoded.NotFound).To(BeEmpty())
				Expect(decoded.Mappings).To(HaveLen(1))
				Expect(decoded.Mappings[0].RawSymbol).To(Equal("ESH1"))
				Expect(decoded.Mappings[0].Intervals).To(HaveLen(1))
				Expect(decoded.Mappings[0].Intervals[0].StartDate).To(Equal(uint32(20201228)))
				Expect(decoded.Mappings[0].Intervals[0].EndDate).To(Equal(uint32(20201229)))
				Expect(decoded.Mappings[0].Intervals[0].Symbol).To(Equal("5482"))
			})
		}
	})

	Context("invariants", func() {
		It("rejects a non-zero schema_definition_length", func() {
			var buf bytes.Buffer
			Expect(sampleMetadata(dbn.DbnVersion2).Write(&buf)).To(Succeed())
			raw := buf.Bytes()

			// schema_definition_length sits right after the fixed header.
			offset := dbn.Metadata_PrefixSize + dbn.MetadataHeaderV2_Size
			raw[offset] = 1

			_, err := dbn.ReadMetadata(bytes.NewReader(raw))
			Expect(err).ToNot(BeNil())
			Expect(err.Error()).To(ContainSubstring("schema definitions"))
		})

		It("rejects an unsupported version byte", func() {
			var buf bytes.Buffer
			Expect(sampleMetadata(dbn.DbnVersion2).Write(&buf)).To(Succeed())
			raw := buf.Bytes()
			raw[3] = 9

			_, err := dbn.ReadMetadata(bytes.NewReader(raw))
			Expect(err).To(Equal(dbn.ErrInvalidDBNVersion))
		})
	})

	Context("update in place", func() {
		It("rewrites start/end/limit and leaves every other field equal", func() {
			var buf bytes.Buffer
			original := sampleMetadata(dbn.DbnVersion2)
			Expect(original.Write(&buf)).To(Succeed())

			stream := bytes.NewReader(buf.Bytes())
			before, err := dbn.ReadMetadata(stream)
			Expect(err).To(BeNil())

			backing := append([]byte(nil), buf.Bytes()...)
			ws := newSeekableBuffer(backing)
			Expect(dbn.UpdateInPlace(ws, 1697240529000000000, 17058980170000000000, 10)).To(Succeed())

			after, err := dbn.ReadMetadata(bytes.NewReader(ws.data))
			Expect(err).To(BeNil())
			Expect(after.Start).To(Equal(uint64(1697240529000000000)))
			Expect(after.End).To(Equal(uint64(17058980170000000000)))
			Expect(after.Limit).To(Equal(uint64(10)))

			Expect(after.Dataset).To(Equal(before.Dataset))
			Expect(after.Schema).To(Equal(before.Schema))
			Expect(after.StypeIn).To(Equal(before.StypeIn))
			Expect(after.StypeOut).To(Equal(before.StypeOut))
			Expect(after.TsOut).To(Equal(before.TsOut))
			Expect(after.Symbols).To(Equal(before.Symbols))
			Expect(after.Mappings).To(Equal(before.Mappings))
		})
	})

	Context("IsInverseMapping", func() {
		It("reports true when StypeIn is InstrumentId", func() {
			m := &dbn.Metadata{StypeIn: dbn.SType_InstrumentId, StypeOut: dbn.SType_RawSymbol}
			inverse, err := m.IsInverseMapping()
			Expect(err).To(BeNil())
			Expect(inverse).To(BeTrue())
		})
		It("reports false when StypeOut is InstrumentId", func() {
			m := &dbn.Metadata{StypeIn: dbn.SType_RawSymbol, StypeOut: dbn.SType_InstrumentId}
			inverse, err := m.IsInverseMapping()
			Expect(err).To(BeNil())
			Expect(inverse).To(BeFalse())
		})
		It("errors when neither stype is InstrumentId", func() {
			m := &dbn.Metadata{StypeIn: dbn.SType_RawSymbol, StypeOut: dbn.SType_RawSymbol}
			_, err := m.IsInverseMapping()
			Expect(err).ToNot(BeNil())
		})
	})

	Context("invalid mapping interval dates", func() {
		It("rejects a start_date naming a nonexistent month", func() {
			m := sampleMetadata(dbn.DbnVersion2)
			m.Mappings[0].Intervals[0].StartDate = 20101305 // month 13
			var buf bytes.Buffer
			Expect(m.Write(&buf)).To(Succeed())

			_, err := dbn.ReadMetadata(&buf)
			Expect(err).ToNot(BeNil())
			Expect(err.Error()).To(ContainSubstring("month"))
		})

		It("rejects an end_date naming a nonexistent day", func() {
			m := sampleMetadata(dbn.DbnVersion2)
			m.Mappings[0].Intervals[0].EndDate = 20210230 // Feb 30th
			var buf bytes.Buffer
			Expect(m.Write(&buf)).To(Succeed())

			_, err := dbn.ReadMetadata(&buf)
			Expect(err).ToNot(BeNil())
			Expect(err.Error()).To(ContainSubstring("day"))
		})
	})
})

// seekableBuffer is a minimal io.WriteSeeker over an in-memory slice, used
// to exercise UpdateInPlace without touching the filesystem.
type seekableBuffer struct {
	data []byte
	pos  int64
}

func newSeekableBuffer(initial []byte) *seekableBuffer {
	return &seekableBuffer{data: initial}
}

func (s *seekableBuffer) Write(p []byte) (int, error) {
	end := s.pos + int64(len(p))
	if end > int64(len(s.data)) {
		grown := make([]byte, end)
		copy(grown, s.data)
		s.data = grown
	}
	n := copy(s.data[s.pos:end], p)
	s.pos = end
	return n, nil
}

func (s *seekableBuffer) Seek(offset int64, whence int) (int64, error) {
	var newPos int64
	switch whence {
	case 0:
		newPos = offset
	case 1:
		newPos = s.pos + offset
	case 2:
		newPos = int64(len(s.data)) + offset
	}
	s.pos = newPos
	return s.pos, nil
}
