// Copyright 2016 Aleksandr Demakin. All rights reserved.

package typedshm_test

import (
	"fmt"

	"github.com/nxgtw/typedshm"
)

type counter struct {
	Value uint64
	Hits  [4]uint32
}

func ExampleNew() {
	typedshm.Destroy("typedshm-example")
	initial := counter{Value: 5}
	// the owner creates the object. usually it lives in another process.
	owner, err := typedshm.New(typedshm.Config[counter]{Name: "typedshm-example", Owner: true, Initial: &initial})
	if err != nil {
		panic("new owner: " + err.Error())
	}
	defer owner.Close()
	attached, err := typedshm.New(typedshm.Config[counter]{Name: "typedshm-example"})
	if err != nil {
		panic("attach: " + err.Error())
	}
	attached.Get().Value += 5
	attached.Get().Hits[0]++
	fmt.Println(owner.Load().Value)
	fmt.Println(owner.Get().Hits[0] == 1)
	if err := attached.Close(); err != nil {
		panic("close: " + err.Error())
	}
	// Output:
	// 10
	// true
}
