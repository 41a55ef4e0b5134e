// Command sgpwm is a thin CLI wrapper exercising the codec's three
// public operations against files on disk. It does not implement any
// watermarking logic itself — that lives entirely in package sgpwm.
package main

import (
	"flag"
	"fmt"
	"math/big"
	"os"

	"github.com/sgpwm/sgpwm"
	"github.com/sgpwm/sgpwm/imgio"
)

func main() {
	var (
		mode       string
		in         string
		out        string
		key        string
		step       float64
		ownerUID   string
		recipient  string
		derivative bool
		reprint    bool
		strict     bool
		jpegQual   int
	)
	flag.StringVar(&mode, "mode", "", "operation: create-master, distribute, or audit")
	flag.StringVar(&in, "i", "", "input image file path")
	flag.StringVar(&out, "o", "", "output image file path (unused for audit)")
	flag.StringVar(&key, "key", "", "secret key (at least 16 bytes)")
	flag.Float64Var(&step, "step", sgpwm.DefaultStep, "QIM quantization step")
	flag.StringVar(&ownerUID, "uid", "", "actor/owner UID (create-master)")
	flag.StringVar(&recipient, "recipient", "", "recipient UID (distribute)")
	flag.BoolVar(&derivative, "allow-derivative", false, "set allow_derivative flag (create-master)")
	flag.BoolVar(&reprint, "allow-reprint", false, "set allow_reprint flag (create-master)")
	flag.BoolVar(&strict, "strict", false, "reject nonzero reserved bits on decode")
	flag.IntVar(&jpegQual, "jpeg-quality", 90, "JPEG quality for .jpg/.jpeg output")
	flag.Parse()

	if in == "" || mode == "" {
		fmt.Fprintln(os.Stderr, "usage: sgpwm -mode {create-master|distribute|audit} -i in.png [-o out.png] -key KEY ...")
		os.Exit(1)
	}

	img, err := imgio.Load(in)
	if err != nil {
		fail("load input", err)
	}
	ctx := sgpwm.CodecContext{Key: []byte(key), Step: step, Strict: strict}

	switch mode {
	case "create-master":
		uid, ok := new(big.Int).SetString(ownerUID, 10)
		if !ok {
			fail("parse -uid", fmt.Errorf("%q is not a valid decimal integer", ownerUID))
		}
		watermarked, rec, err := sgpwm.CreateMaster(ctx, img, uid, sgpwm.Flags{AllowDerivative: derivative, AllowReprint: reprint})
		if err != nil {
			fail("create master", err)
		}
		if err := imgio.Save(watermarked, out, jpegQual); err != nil {
			fail("save output", err)
		}
		fmt.Printf("created master: original_uid=%s current_uid=%s\n", rec.OriginalUID, rec.CurrentUID)

	case "distribute":
		uid, ok := new(big.Int).SetString(recipient, 10)
		if !ok {
			fail("parse -recipient", fmt.Errorf("%q is not a valid decimal integer", recipient))
		}
		watermarked, rec, err := sgpwm.GenerateDistribution(ctx, img, uid)
		if err != nil {
			fail("generate distribution", err)
		}
		if err := imgio.Save(watermarked, out, jpegQual); err != nil {
			fail("save output", err)
		}
		fmt.Printf("distributed: original_uid=%s current_uid=%s\n", rec.OriginalUID, rec.CurrentUID)

	case "audit":
		rec, err := sgpwm.Audit(ctx, img)
		if err != nil {
			fail("audit", err)
		}
		fmt.Printf("verdict=%s confidence=%.3f scale_used=%d\n", rec.Verdict, rec.Confidence, rec.ScaleUsed)
		if rec.Verdict == sgpwm.VerdictWatermarked {
			fmt.Printf("original_uid=%s current_uid=%s allow_derivative=%v allow_reprint=%v\n",
				rec.OriginalUID, rec.CurrentUID, rec.AllowDerivative, rec.AllowReprint)
		}

	default:
		fmt.Fprintf(os.Stderr, "unknown -mode %q\n", mode)
		os.Exit(1)
	}
}

func fail(step string, err error) {
	fmt.Fprintf(os.Stderr, "sgpwm: %s: %s\n", step, err)
	os.Exit(1)
}
