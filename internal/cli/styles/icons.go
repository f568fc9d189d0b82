package styles

// Nerd Font icons (requires a Nerd Font to display correctly)
const (
	IconGlobe    = "\uf0ac" // browser/web
	IconVersion  = "\uf02b" // tag
	IconCheck    = "\uf00c" // check
	IconX        = "\uf00d" // x
	IconWarning  = "\uf071" // warning
	IconInfo     = "\uf05a" // info
	IconShield   = "\uf132" // shield
	IconFolder   = "\uf07b" // folder
	IconConfig   = "\ue615" // config
	IconNote     = "\uf249" // sticky note
	IconSession  = "\uf2d2" // window
	IconTab      = "\uf0ce" // table
	IconClock    = "\uf017" // clock
	IconSleep    = "\uf186" // moon, workspace unloaded
	IconCursor   = "\uf054" // chevron-right
	IconExternal = "\uf08e" // external link
)
