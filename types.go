package recordkit

// UnknownPolicy controls how keys that are not declared by a record are handled.
type UnknownPolicy int

const (
	UnknownPassthrough UnknownPolicy = iota // Retain unknown keys on the record for re-serialization.
	UnknownStrip                            // Drop unknown keys.
	UnknownStrict                           // Reject unknown keys with an error.
)

func (p UnknownPolicy) String() string {
	switch p {
	case UnknownPassthrough:
		return "passthrough"
	case UnknownStrip:
		return "strip"
	case UnknownStrict:
		return "strict"
	default:
		return "unknown"
	}
}

// ParseOpt bundles parsing options. When several are supplied the last one wins.
type ParseOpt struct {
	Unknown UnknownPolicy
	// MaterializeDefaults realizes declared defaults for absent fields after a
	// successful parse, exactly as direct construction does. By default parse
	// leaves them unset so "specified" and "defaulted" stay distinguishable.
	MaterializeDefaults bool
}

// SerializeOpt bundles serialization options. When several are supplied the
// last one wins.
type SerializeOpt struct {
	OmitPassthrough bool
}

func lastParseOpt(opts []ParseOpt) ParseOpt {
	if len(opts) == 0 {
		return ParseOpt{}
	}
	return opts[len(opts)-1]
}

func lastSerializeOpt(opts []SerializeOpt) SerializeOpt {
	if len(opts) == 0 {
		return SerializeOpt{}
	}
	return opts[len(opts)-1]
}
