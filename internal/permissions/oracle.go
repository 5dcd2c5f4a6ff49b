package permissions

// StaticOracle answers from a fixed grant set. The CLI runs with a
// fully-granted oracle (a desktop process owns its files); tests use it to
// exercise every tier.
type StaticOracle struct {
	granted map[Kind]bool
}

// NewStaticOracle creates an oracle granting exactly the given kinds.
func NewStaticOracle(kinds ...Kind) *StaticOracle {
	granted := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		granted[k] = true
	}
	return &StaticOracle{granted: granted}
}

// GrantAll returns an oracle granting every kind.
func GrantAll() *StaticOracle {
	return NewStaticOracle(
		ReadImages, ReadVideo, ReadAudio,
		ReadLegacyStorage, WriteLegacyStorage, ManageAllFiles,
	)
}

// Check reports whether kind was granted.
func (o *StaticOracle) Check(kind Kind) Status {
	if o.granted[kind] {
		return StatusGranted
	}
	return StatusDenied
}

// Request behaves like Check; a static oracle cannot prompt.
func (o *StaticOracle) Request(kind Kind) Status {
	return o.Check(kind)
}
