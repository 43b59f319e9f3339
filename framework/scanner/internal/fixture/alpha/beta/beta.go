package beta

type Bean struct{}
