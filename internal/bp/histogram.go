package bp

// Histogram counts readings per category.
type Histogram struct {
	Normal   int `json:"normal"`
	Elevated int `json:"elevated"`
	High     int `json:"high"`
	VeryHigh int `json:"very_high"`
}

func (h *Histogram) Add(c Category) {
	switch c {
	case Normal:
		h.Normal++
	case Elevated:
		h.Elevated++
	case High:
		h.High++
	case VeryHigh:
		h.VeryHigh++
	}
}

func (h Histogram) Count(c Category) int {
	switch c {
	case Normal:
		return h.Normal
	case Elevated:
		return h.Elevated
	case High:
		return h.High
	case VeryHigh:
		return h.VeryHigh
	default:
		return 0
	}
}

func (h Histogram) Total() int {
	return h.Normal + h.Elevated + h.High + h.VeryHigh
}
