// Copyright (c) 2024 Neomantra Corp

package dbn_test

import (
	"bytes"
	"encoding/binary"

	"github.com/databento/dbn-sub000"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func encodeSampleStream(version uint8, n int) []byte {
	var buf bytes.Buffer
	m := sampleMetadata(version)
	Expect(m.Write(&buf)).To(Succeed())

	for i := 0; i < n; i++ {
		rec := make([]byte, dbn.TradeMsg_Size)
		rec[0] = uint8(dbn.TradeMsg_Size / 4)
		rec[1] = uint8(dbn.RType_Mbp0)
		binary.LittleEndian.PutUint16(rec[2:4], 1)
		binary.LittleEndian.PutUint32(rec[4:8], uint32(100+i))
		binary.LittleEndian.PutUint64(rec[8:16], uint64(1_000_000_000*(i+1)))
		buf.Write(rec)
	}
	return buf.Bytes()
}

var _ = Describe("Decoder", func() {
	It("decodes metadata then every record, chunk-size independent", func() {
		stream := encodeSampleStream(dbn.DbnVersion2, 3)

		for _, chunkSize := range []int{1, 7, len(stream)} {
			d := dbn.NewDecoder(dbn.DecoderConfig{})
			var records []dbn.RecordRef
			var sawMetadata bool

			pos := 0
			for pos < len(stream) {
				end := pos + chunkSize
				if end > len(stream) {
					end = len(stream)
				}
				n, err := d.Write(stream[pos:end])
				Expect(err).To(BeNil())
				pos += n

				for {
					result, err := d.Process()
					Expect(err).To(BeNil())
					if result == dbn.ResultReadMore {
						break
					}
					if result == dbn.ResultMetadata {
						sawMetadata = true
						continue
					}
					ref := d.LastRecord()
					rec, ok := dbn.As[dbn.TradeMsg](ref)
					Expect(ok).To(BeTrue())
					records = append(records, ref)
					_ = rec
				}
			}

			Expect(sawMetadata).To(BeTrue())
			Expect(records).To(HaveLen(3))
		}
	})

	It("upgrades v1 instrument definitions to v3 on the fly", func() {
		var buf bytes.Buffer
		m := sampleMetadata(dbn.DbnVersion1)
		Expect(m.Write(&buf)).To(Succeed())

		var v1 dbn.InstrumentDefMsgV1
		v1.Header.InstrumentID = 42
		const fixedNumerics = 8*14 + 4*13 + 2*4
		const fixedCstrs = 4 + 4 + 6 + 21 + 5 + 7 + 7 + 7 + 31 + 21
		const fixedFlags = 16
		const v1CstrLen = 22
		rawSize := dbn.RHeader_Size + fixedNumerics + fixedCstrs + v1CstrLen + fixedFlags
		v1.Header.Length = uint8(rawSize / 4)
		v1.Header.RType = dbn.RType_InstrumentDef
		raw := make([]byte, rawSize)
		dbn.PutRHeader_Raw(raw[0:dbn.RHeader_Size], &v1.Header)
		buf.Write(raw)

		d := dbn.NewDecoder(dbn.DecoderConfig{UpgradePolicy: dbn.UpgradeToV3})
		_, err := d.Write(buf.Bytes())
		Expect(err).To(BeNil())

		result, err := d.Process()
		Expect(err).To(BeNil())
		Expect(result).To(Equal(dbn.ResultMetadata))

		result, err = d.Process()
		Expect(err).To(BeNil())
		Expect(result).To(Equal(dbn.ResultRecord))

		ref := d.LastRecord()
		v3, ok := dbn.As[dbn.InstrumentDefMsgV3](ref)
		Expect(ok).To(BeTrue())
		Expect(v3.Header.InstrumentID).To(Equal(uint32(42)))
	})

	It("decodes a fragment stream with no metadata preamble", func() {
		rec := make([]byte, dbn.TradeMsg_Size)
		rec[0] = uint8(dbn.TradeMsg_Size / 4)
		rec[1] = uint8(dbn.RType_Mbp0)

		d := dbn.NewDecoder(dbn.DecoderConfig{SkipMetadata: true})
		_, err := d.Write(rec)
		Expect(err).To(BeNil())

		result, err := d.Process()
		Expect(err).To(BeNil())
		Expect(result).To(Equal(dbn.ResultRecord))
	})

	It("surfaces an invalid prelude as a poisoned decode error", func() {
		d := dbn.NewDecoder(dbn.DecoderConfig{})
		_, err := d.Write([]byte("NOTDBN!!"))
		Expect(err).To(BeNil())

		_, err = d.Process()
		Expect(err).ToNot(BeNil())

		// Once poisoned, Process keeps returning the same error until Reset.
		_, err2 := d.Process()
		Expect(err2).To(Equal(err))

		d.Reset()
		_, err3 := d.Write(encodeSampleStream(dbn.DbnVersion2, 0))
		Expect(err3).To(BeNil())
		result, err := d.Process()
		Expect(err).To(BeNil())
		Expect(result).To(Equal(dbn.ResultMetadata))
	})

	It("rejects a record claiming to be shorter than the header", func() {
		d := dbn.NewDecoder(dbn.DecoderConfig{SkipMetadata: true})
		// length byte of 2 means 8 bytes total, less than RHeader_Size (16).
		_, err := d.Write([]byte{2, uint8(dbn.RType_Mbp0), 0, 0, 0, 0, 0, 0})
		Expect(err).To(BeNil())

		_, err = d.Process()
		Expect(err).ToNot(BeNil())
		Expect(err.Error()).To(ContainSubstring("shorter than header"))
	})
})
