package cmd

import (
	"fmt"
	"mime"
	"path"

	img "github.com/roljohntorralba/imgopt/image"
)

var cmdProbe = &Command{
	UsageLine: "probe attr|mime|type filename...",
	Short:     "inspect image files",
	Long: `
Just a probe command. attr prints what the decoder sees, mime the media
type for the file extension, type the sniffed image format.
`,
}

func init() {
	cmdProbe.Run = runProbe
}

func runProbe(args []string) bool {
	if len(args) < 2 {
		fmt.Println("nothing")
		return false
	}

	mode := args[0]
	for _, name := range args[1:] {
		switch mode {
		case "attr":
			im, err := img.OpenFile(name)
			if err != nil {
				fmt.Println("Err: ", err)
				return false
			}
			a := im.Attr
			fmt.Printf("%s: \t%dx%d %s %s %d bytes\n", name, a.Width, a.Height, a.Ext, a.Mime, a.Size)
		case "mime":
			ext := path.Ext(name)
			fmt.Println(ext, mime.TypeByExtension(ext))
		case "type":
			t, err := img.GuessTypeFile(name)
			if err != nil {
				fmt.Println("Err: ", err)
				return false
			}
			fmt.Printf("%s: \t%s\n", name, t)
		default:
			fmt.Println("unknown mode", mode)
			return false
		}
	}
	return true
}
