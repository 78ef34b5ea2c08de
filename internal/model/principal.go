package model

type Principal struct {
	Subject string
	Role    string
}
