package domain

// FaceState is the step the simulated face scan is in
type FaceState string

const (
	FaceInitial  FaceState = "initial"
	FaceScanning FaceState = "scanning"
	FaceSuccess  FaceState = "success"
	FaceFailed   FaceState = "failed"
)
