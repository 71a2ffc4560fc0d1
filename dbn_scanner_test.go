package dbn_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/databento/dbn-sub000"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// Test Launcher
func TestDbn(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "dbn-go suite")
}

// putOhlcvRecord appends a synthetic OhlcvMsg, at the given instrument, onto buf.
func putOhlcvRecord(buf *bytes.Buffer, instrumentID uint32, open, volume int64) {
	rec := make([]byte, dbn.OhlcvMsg_Size)
	rec[0] = uint8(dbn.OhlcvMsg_Size / 4)
	rec[1] = uint8(dbn.RType_Ohlcv1S)
	binary.LittleEndian.PutUint32(rec[4:8], instrumentID)
	body := rec[dbn.RHeader_Size:]
	binary.LittleEndian.PutUint64(body[0:8], uint64(open))
	binary.LittleEndian.PutUint64(body[8:16], uint64(open))
	binary.LittleEndian.PutUint64(body[16:24], uint64(open))
	binary.LittleEndian.PutUint64(body[24:32], uint64(open))
	binary.LittleEndian.PutUint64(body[32:40], uint64(volume))
	buf.Write(rec)
}

var _ = Describe("DbnScanner", func() {
	Context("v1 streams", func() {
		It("should read a synthetic v1 stream correctly", func() {
			var buf bytes.Buffer
			m := sampleMetadata(dbn.DbnVersion1)
			m.Schema = dbn.Schema_Ohlcv1S
			Expect(m.Write(&buf)).To(Succeed())
			putOhlcvRecord(&buf, 5482, 100, 10)
			putOhlcvRecord(&buf, 5482, 110, 20)

			records, metadata, err := dbn.ReadDBNToSlice[dbn.OhlcvMsg](&buf)
			Expect(err).To(BeNil())
			Expect(metadata).ToNot(BeNil())
			Expect(metadata.VersionNum).To(Equal(dbn.DbnVersion1))
			Expect(len(records)).To(Equal(2))
			Expect(records[0].Volume).To(Equal(uint64(10)))
			Expect(records[1].Open).To(Equal(int64(110)))
		})
	})

	Context("v2 streams", func() {
		It("should read a synthetic v2 stream correctly", func() {
			var buf bytes.Buffer
			m := sampleMetadata(dbn.DbnVersion2)
			m.Schema = dbn.Schema_Ohlcv1S
			Expect(m.Write(&buf)).To(Succeed())
			putOhlcvRecord(&buf, 5482, 200, 30)
			putOhlcvRecord(&buf, 5482, 210, 40)

			records, metadata, err := dbn.ReadDBNToSlice[dbn.OhlcvMsg](&buf)
			Expect(err).To(BeNil())
			Expect(metadata).ToNot(BeNil())
			Expect(metadata.VersionNum).To(Equal(dbn.DbnVersion2))
			Expect(len(records)).To(Equal(2))
			Expect(records[0].Volume).To(Equal(uint64(30)))
		})
	})

	Context("Visit", func() {
		It("dispatches a scanned record to the matching Visitor method", func() {
			var buf bytes.Buffer
			m := sampleMetadata(dbn.DbnVersion2)
			m.Schema = dbn.Schema_Ohlcv1S
			Expect(m.Write(&buf)).To(Succeed())
			putOhlcvRecord(&buf, 5482, 300, 50)

			scanner := dbn.NewDbnScanner(&buf)
			_, err := scanner.Metadata()
			Expect(err).To(BeNil())
			Expect(scanner.Next()).To(BeTrue())

			counted := &countingVisitor{}
			Expect(scanner.Visit(counted)).To(Succeed())
			Expect(counted.trades).To(Equal(1))
		})
	})
})

func (c *countingVisitor) OnOhlcv(record *dbn.OhlcvMsg) error {
	c.trades++
	return nil
}
