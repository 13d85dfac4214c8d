package classify

import "github.com/backmassage/fixbatch/internal/config"

// Options is the tuning block sent to the classifier. JSON keys follow the
// reference I2MC option names so existing wrappers can pass it through.
type Options struct {
	XRes     float64 `json:"xres"`
	YRes     float64 `json:"yres"`
	MissingX float64 `json:"missingx"`
	MissingY float64 `json:"missingy"`
	Freq     float64 `json:"freq"`

	ScreenSize   []float64 `json:"scrSz,omitempty"`
	DistToScreen float64   `json:"disttoscreen,omitempty"`

	WindowTimeInterp float64 `json:"windowtimeInterp"`
	EdgeSampInterp   int     `json:"edgeSampInterp"`
	MaxDisp          float64 `json:"maxdisp"`

	WindowTime     float64 `json:"windowtime"`
	StepTime       float64 `json:"steptime"`
	MaxErrors      int     `json:"maxerrors"`
	Downsamples    []int   `json:"downsamples"`
	DownsampFilter bool    `json:"downsampFilter"`

	CutoffStd      float64 `json:"cutoffstd"`
	OnOffsetThresh float64 `json:"onoffsetThresh"`
	MaxMergeDist   float64 `json:"maxMergeDist"`
	MaxMergeTime   float64 `json:"maxMergeTime"`
	MinFixDur      float64 `json:"minFixDur"`
}

// OptionsFromConfig copies the screen and detection settings. cfg must have
// been normalized so the derived sentinels and maxdisp are set.
func OptionsFromConfig(cfg *config.Config) Options {
	d := cfg.Detection
	o := Options{
		XRes:             cfg.Screen.XRes,
		YRes:             cfg.Screen.YRes,
		Freq:             d.Freq,
		ScreenSize:       d.ScreenSizeCm,
		WindowTimeInterp: d.WindowTimeInterp,
		EdgeSampInterp:   d.EdgeSampInterp,
		WindowTime:       d.WindowTime,
		StepTime:         d.StepTime,
		MaxErrors:        d.MaxErrors,
		Downsamples:      d.Downsamples,
		DownsampFilter:   d.DownsampFilter,
		CutoffStd:        d.CutoffStd,
		OnOffsetThresh:   d.OnOffsetThresh,
		MaxMergeDist:     d.MaxMergeDist,
		MaxMergeTime:     d.MaxMergeTime,
		MinFixDur:        d.MinFixDur,
	}
	if len(d.ScreenSizeCm) > 0 {
		o.DistToScreen = d.DistToScreenCm
	}
	if cfg.Screen.MissingX != nil {
		o.MissingX = *cfg.Screen.MissingX
	}
	if cfg.Screen.MissingY != nil {
		o.MissingY = *cfg.Screen.MissingY
	}
	if d.MaxDisp != nil {
		o.MaxDisp = *d.MaxDisp
	}
	return o
}
