package domain

type Assignment struct {
	Username  string
	ProjectID string
	Impact    int // weight of the developer on the project, no enforced range
}
