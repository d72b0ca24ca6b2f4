package source

// Kind represents where a document comes from
type Kind string

// String returns the string representation of the Kind
func (k Kind) String() string {
	return string(k)
}

// IsRemote returns true if documents of this kind are fetched over the network
func (k Kind) IsRemote() bool {
	return k == KindRemoteURL
}

const (
	KindRemoteURL Kind = "remote_url"
	KindFile      Kind = "file"
	KindStdin     Kind = "stdin"
	KindString    Kind = "string"
	KindUnknown   Kind = ""
)
