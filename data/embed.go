package data

import (
	_ "embed"
)

//go:embed seeds.json
var Seeds []byte
