package model

// SyncReport summarizes one reconciliation run between the document store
// ("local") and the relational store ("remote"). LocalToRemote/RemoteToLocal
// are staged counts; Uploaded counts rows actually inserted into the
// relational store, so it may be lower than LocalToRemote after partial
// batch failures.
type SyncReport struct {
	LocalToRemote int      `json:"localToRemote"`
	RemoteToLocal int      `json:"remoteToLocal"`
	AlreadyInBoth int      `json:"alreadyInBoth"`
	Uploaded      int      `json:"uploaded"`
	Errors        []string `json:"errors"`
	Success       bool     `json:"success"`
}
