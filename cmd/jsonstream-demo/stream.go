package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	yamlenc "sigs.k8s.io/yaml"

	"github.com/flitsinc/jsonstream/decoder"
)

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Decode stdin and print each published snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		source := decoder.NewByteSource(&stdinChunkSource{r: os.Stdin, chunkSize: chunk})
		dec := decoder.New(source, decoder.WithMaxDepth(maxDepth))

		ctx := context.Background()
		for val, err := range dec.Iter(ctx) {
			if err != nil {
				return err
			}
			rendered, renderErr := renderSnapshot(val)
			if renderErr != nil {
				return renderErr
			}
			fmt.Println(rendered)
		}
		return nil
	},
}

func renderSnapshot(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if format == "yaml" {
		y, err := yamlenc.JSONToYAML(data)
		if err != nil {
			return "", err
		}
		return string(y), nil
	}
	return string(data), nil
}
