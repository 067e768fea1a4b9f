package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/earncall/core"
)

const (
	companyRecordPrefix     = "cmprec"
	companyNamePrefix       = "cmpname"
	companyIDSeq            = "cmpseq"
	transcriptRecordPrefix  = "trnrec"
	transcriptDatePrefix    = "trndate"
	transcriptCompanyPrefix = "trncmp"
	transcriptIDSeq         = "trnseq"
	priceRecordPrefix       = "prcrec"
	priceCompanyPrefix      = "prccmp"
	priceIDSeq              = "prcseq"
)

// sortableTime maps t to a uint64 whose big-endian bytes sort in time order,
// including for instants before the Unix epoch.
func sortableTime(t time.Time) uint64 {
	return uint64(t.UnixMicro()) ^ (1 << 63)
}

func makeCompanyKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", companyRecordPrefix, id))
}

// makeCompanyNameKey generates the unique name index key.
// Format: prefix:name
func makeCompanyNameKey(name string) []byte {
	return []byte(companyNamePrefix + ":" + name)
}

func makeTranscriptKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", transcriptRecordPrefix, id))
}

// makeTranscriptDateKey generates a composite key for the date index.
// Format: prefix:date:id
func makeTranscriptDateKey(date time.Time, id core.ID) []byte {
	return appendUint64s([]byte(transcriptDatePrefix+":"), sortableTime(date), uint64(id))
}

// makeTranscriptCompanyKey generates a composite key for the per-company date index.
// Format: prefix:companyID:date:id
func makeTranscriptCompanyKey(companyID core.ID, date time.Time, id core.ID) []byte {
	return appendUint64s(makePartialTranscriptCompanyKey(companyID), sortableTime(date), uint64(id))
}

// makePartialTranscriptCompanyKey generates the prefix shared by one company's transcripts.
func makePartialTranscriptCompanyKey(companyID core.ID) []byte {
	return appendUint64s([]byte(transcriptCompanyPrefix+":"), uint64(companyID))
}

func makePriceKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", priceRecordPrefix, id))
}

// makePriceCompanyKey generates a composite key for the per-company date index.
// Format: prefix:companyID:date:id
func makePriceCompanyKey(companyID core.ID, date time.Time, id core.ID) []byte {
	return appendUint64s(makePartialPriceCompanyKey(companyID), sortableTime(date), uint64(id))
}

// makePartialPriceCompanyKey generates the prefix shared by one company's price bars.
func makePartialPriceCompanyKey(companyID core.ID) []byte {
	return appendUint64s([]byte(priceCompanyPrefix+":"), uint64(companyID))
}

// makePartialPriceDateKey generates a seek key for price range queries.
// Format: prefix:companyID:date
func makePartialPriceDateKey(companyID core.ID, date time.Time) []byte {
	return appendUint64s(makePartialPriceCompanyKey(companyID), sortableTime(date))
}

// appendUint64s appends each value in big-endian order so lexicographic
// key order matches numeric order.
func appendUint64s(buf []byte, values ...uint64) []byte {
	for _, v := range values {
		buf = binary.BigEndian.AppendUint64(buf, v)
	}
	return buf
}
