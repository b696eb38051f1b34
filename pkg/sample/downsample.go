package sample

// DownsampleSamples reduces samples to at most maxPoints for display.
// The input is split into maxPoints/2 buckets and each bucket contributes
// its minimum and maximum in time order, so single-reading spikes survive.
// dst is reused when it has enough capacity.
func DownsampleSamples(dst []Sample, samples []Sample, maxPoints int) []Sample {
	if len(samples) <= maxPoints {
		if cap(dst) >= len(samples) {
			dst = dst[:len(samples)]
		} else {
			dst = make([]Sample, len(samples))
		}
		copy(dst, samples)
		return dst
	}

	if cap(dst) >= maxPoints {
		dst = dst[:0]
	} else {
		dst = make([]Sample, 0, maxPoints)
	}

	buckets := maxPoints / 2
	if buckets == 0 {
		if maxPoints == 1 {
			dst = append(dst, samples[0])
		}
		return dst
	}

	for b := range buckets {
		lo := b * len(samples) / buckets
		hi := (b + 1) * len(samples) / buckets

		iMin, iMax := lo, lo
		for i := lo + 1; i < hi; i++ {
			if samples[i].Voltage < samples[iMin].Voltage {
				iMin = i
			}
			if samples[i].Voltage > samples[iMax].Voltage {
				iMax = i
			}
		}

		switch {
		case iMin == iMax:
			dst = append(dst, samples[iMin])
		case iMin < iMax:
			dst = append(dst, samples[iMin], samples[iMax])
		default:
			dst = append(dst, samples[iMax], samples[iMin])
		}
	}

	return dst
}
