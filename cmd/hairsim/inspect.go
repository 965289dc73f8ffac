package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/hairsim/internal/boundary"
	"github.com/san-kum/hairsim/internal/config"
	"github.com/san-kum/hairsim/internal/dynamo"
	"github.com/san-kum/hairsim/internal/gather"
	"github.com/san-kum/hairsim/internal/world"
	"github.com/spf13/cobra"
)

func gatherScene(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	table, err := cfg.ColliderTable()
	if err != nil {
		return err
	}

	var scene *world.Scene
	if sceneFile != "" {
		scene, err = world.LoadScene(sceneFile)
	} else {
		scene, err = world.BuildScene(world.DefaultScene())
	}
	if err != nil {
		return err
	}

	c, err := vec3Flag("center", center)
	if err != nil {
		return err
	}
	e, err := vec3Flag("extents", extents)
	if err != nil {
		return err
	}

	opts := gather.Options{
		SortByProximity:  !noSort,
		SpatialQuery:     !noQuery,
		IncludeColliders: cfg.Boundaries.IncludeColliders,
		Volume:           gather.QueryVolume{Center: c, Extents: e, Orientation: mgl64.QuatIdent()},
	}

	ctx := gather.NewContext(scene.Space, table)
	entries := ctx.Gather(scene.Explicit, opts)
	logger.Debug("gathered", "entries", len(entries), "objects", scene.Space.Len())

	if len(entries) == 0 {
		fmt.Println("no boundaries")
		return nil
	}

	ext := opts.Volume.MaxExtent()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tHANDLE\tKIND\tDISTANCE\tBUCKET")
	for i, entry := range entries {
		d := boundary.Distance(c, entry)
		fmt.Fprintf(w, "%d\t%d\t%s\t%.4f\t%d\n", i, entry.Handle, entry.Describe(), d, gather.Quantize(d, ext))
	}
	return w.Flush()
}

func evalDistance(cmd *cobra.Command, args []string) error {
	kind, err := boundary.ParseShapeKind(args[0])
	if err != nil {
		return fmt.Errorf("%w: %v", dynamo.ErrUnknownShape, err)
	}

	p, err := vec3Flag("point", point)
	if err != nil {
		return err
	}
	c, err := vec3Flag("center", center)
	if err != nil {
		return err
	}

	var s boundary.Shape
	switch kind {
	case boundary.ShapeSphere:
		s = boundary.Sphere{Center: c, Radius: radius}
	case boundary.ShapeCapsule:
		b, err := vec3Flag("end", pointB)
		if err != nil {
			return err
		}
		s = boundary.Capsule{A: c, B: b, Radius: radius}
	case boundary.ShapeTorus:
		a, err := vec3Flag("axis", axis)
		if err != nil {
			return err
		}
		s = boundary.Torus{Center: c, Axis: a, MajorRadius: major, MinorRadius: minor}
	case boundary.ShapeCube:
		sz, err := vec3Flag("size", size)
		if err != nil {
			return err
		}
		s = boundary.NewCube(mgl64.Translate3D(c.X(), c.Y(), c.Z()).Mul4(mgl64.Scale3D(sz.X(), sz.Y(), sz.Z())))
	}

	entry := boundary.ShapeEntry(s, 0)
	d := boundary.Distance(p, entry)
	g := boundary.Gradient(p, entry, 1e-5)

	fmt.Printf("shape:    %s\n", kind)
	fmt.Printf("distance: %.6f\n", d)
	fmt.Printf("gradient: (%.4f, %.4f, %.4f)\n", g.X(), g.Y(), g.Z())
	return nil
}

func vec3Flag(name string, v []float64) (mgl64.Vec3, error) {
	if len(v) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("--%s needs 3 components, got %d", name, len(v))
	}
	return mgl64.Vec3{v[0], v[1], v[2]}, nil
}
