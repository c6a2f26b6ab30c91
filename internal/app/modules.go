package app

import (
	"github.com/specialistvlad/symparam/internal/callable"
	"github.com/specialistvlad/symparam/internal/registry"
)

// coreModules is the definitive list of all modules that are compiled into
// the symparam binary.
var coreModules = []registry.Module{
	callable.Module{},
}
