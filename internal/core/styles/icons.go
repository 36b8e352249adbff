package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconCart     = ""     // nf-fa-shopping_cart
	IconHeart    = ""     // nf-fa-heart
	IconPackage  = ""     // nf-oct-package
	IconTag      = ""     // nf-fa-tag
	IconStar     = ""     // nf-fa-star
	IconStore    = "\U000F04DC" // nf-md-store
	IconCategory = ""     // nf-fa-th_large
	IconSearch   = ""     // nf-fa-search
)

// Toast icons
var (
	IconSuccess = "" // nf-fa-check
	IconInfo    = "" // nf-fa-info_circle
	IconWarning = "" // nf-fa-warning
	IconError   = "" // nf-fa-times_circle
)
