package registry_test

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/byterings/benv/internal/registry"
)

func ExampleRegistry_Activate() {
	fs := memfs.New()
	fs.MkdirAll("network/office", 0755)
	util.WriteFile(fs, "network/office/activate", []byte("export HTTP_PROXY=http://proxy:3128\n"), 0644)

	reg := registry.NewFromFS(fs)

	act := registry.ActivatorFunc(func(payloadPath string) error {
		fmt.Println("sourcing", filepath.Base(payloadPath))
		return nil
	})

	if err := reg.Activate("network", "office", act); err != nil {
		fmt.Println("activate failed:", err)
		return
	}

	current, _ := reg.Current("network")
	fmt.Println("current:", current)

	// Output:
	// sourcing activate
	// current: office
}
