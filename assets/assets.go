package assets

import _ "embed"

const (
	LogoFilename  = "logo_justissimo.png"
	LogoContentID = "justissimo_logo"
)

//go:embed logo_justissimo.png
var Logo []byte
