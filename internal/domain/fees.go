package domain

// SplitAmount computes the platform-commission split for a gross amount in
// minor currency units. The fee is rounded half-up on the percentage
// product; integer arithmetic keeps the result deterministic across
// platforms. For any gross >= 0 and percent in [0,100]:
//
//	fee + net == gross, fee >= 0, net >= 0
func SplitAmount(grossCents, commissionPercent int64) (feeCents, netCents int64) {
	if grossCents <= 0 || commissionPercent <= 0 {
		return 0, grossCents
	}
	if commissionPercent > 100 {
		commissionPercent = 100
	}
	feeCents = (grossCents*commissionPercent + 50) / 100
	netCents = grossCents - feeCents
	return feeCents, netCents
}
