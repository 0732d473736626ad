package mandel

// Display presents rendered fields. Implementations also own the pointer
// input: they filter out tiny drags and translate pixels to plane points
// before handing a selection to the viewport.
type Display interface {
	// ShowRaster draws field so that its extent matches bounds,
	// fully replacing whatever was shown before.
	ShowRaster(field *EscapeField, bounds Region) error
	Clear() error
}
