package timex

import "time"

// nptOffset is Nepal Time, UTC+5:45.
const nptOffset = 5*60*60 + 45*60

// NPT is the fixed zone every created_at / updated_at value is expressed in.
var NPT = time.FixedZone("NPT", nptOffset)

// NowNPT returns the current instant in the NPT zone.
func NowNPT() time.Time {
	return time.Now().In(NPT)
}
