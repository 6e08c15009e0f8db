package types

// DangerClass is the hazard-class label attached to a NACE activity code.
// The reference table uses the Turkish regulatory labels; rows without a
// class keep the empty value.
type DangerClass string

const (
	DangerClassLow         DangerClass = "Az Tehlikeli"
	DangerClassMedium      DangerClass = "Tehlikeli"
	DangerClassHigh        DangerClass = "Çok Tehlikeli"
	DangerClassUnspecified DangerClass = ""
)

func (d DangerClass) String() string {
	return string(d)
}

// IsValid checks if the danger class is one of the known labels
func (d DangerClass) IsValid() bool {
	switch d {
	case DangerClassLow, DangerClassMedium, DangerClassHigh, DangerClassUnspecified:
		return true
	default:
		return false
	}
}
