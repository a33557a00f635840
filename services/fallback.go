package services

import "strings"

// Static stand-in images by model-name keyword, used whenever a listing has
// neither a generated nor a user-supplied image (or that image fails to
// load). Keys are matched as substrings of the lowercased car name.
var carImageFallbacks = map[string]string{
	"thar":     "https://imgd.aeplcdn.com/664x374/n/cw/ec/40087/thar-exterior-right-front-three-quarter-11.jpeg",
	"fronx":    "https://imgd.aeplcdn.com/664x374/n/cw/ec/130583/fronx-exterior-right-front-three-quarter-109.jpeg",
	"scorpio":  "https://imgd.aeplcdn.com/664x374/n/cw/ec/40432/scorpio-n-exterior-right-front-three-quarter-75.jpeg",
	"seltos":   "https://imgd.aeplcdn.com/664x374/n/cw/ec/174323/seltos-exterior-right-front-three-quarter-2.jpeg",
	"creta":    "https://imgd.aeplcdn.com/664x374/n/cw/ec/141115/creta-exterior-right-front-three-quarter-16.jpeg",
	"xuv700":   "https://imgd.aeplcdn.com/664x374/n/cw/ec/42355/xuv700-exterior-right-front-three-quarter-3.jpeg",
	"virtus":   "https://imgd.aeplcdn.com/664x374/n/cw/ec/100853/virtus-exterior-right-front-three-quarter-74.jpeg",
	"harrier":  "https://imgd.aeplcdn.com/664x374/n/cw/ec/139139/harrier-exterior-right-front-three-quarter-3.jpeg",
	"nexon":    "https://imgd.aeplcdn.com/664x374/n/cw/ec/141867/nexon-exterior-right-front-three-quarter-71.jpeg",
	"hector":   "https://imgd.aeplcdn.com/664x374/n/cw/ec/130583/hector-exterior-right-front-three-quarter-74.jpeg",
	"verna":    "https://imgd.aeplcdn.com/664x374/n/cw/ec/121943/verna-exterior-right-front-three-quarter-2.jpeg",
	"ecosport": "https://imgd.aeplcdn.com/664x374/n/cw/ec/27457/ecosport-exterior-right-front-three-quarter-148538.jpeg",
	"swift":    "https://imgd.aeplcdn.com/664x374/n/cw/ec/159099/swift-exterior-right-front-three-quarter-31.jpeg",
	"city":     "https://imgd.aeplcdn.com/664x374/n/cw/ec/134287/city-exterior-right-front-three-quarter-77.jpeg",
}

// FindFallbackImage returns a static image URL for the car name, if any of
// the known model keywords appear in it.
func FindFallbackImage(name string) (string, bool) {
	lower := strings.ToLower(name)
	for key, url := range carImageFallbacks {
		if strings.Contains(lower, key) {
			return url, true
		}
	}
	return "", false
}
