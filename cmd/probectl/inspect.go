package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/probe"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Inspect prints the derived state of a single probe.
func Inspect(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	mode, err := parseMode(ctx.String("mode"))
	if err != nil {
		return err
	}

	p := probe.NewReflectionProbe(
		probe.WithMode(mode),
		probe.WithLightLayers(probe.LightLayer(ctx.Int("layers"))),
		probe.WithUseInfluenceVolumeAsProxyVolume(ctx.Bool("influence-proxy")),
	)

	// Keep the proxy referenced for as long as the probe is inspected; the probe does not own it.
	proxy, err := parseProxy(ctx.String("proxy"))
	if err != nil {
		return err
	}
	p.SetProxyVolume(proxy)

	writeInspectTable(os.Stdout, p)
	runtime.KeepAlive(proxy)
	return nil
}

func parseMode(s string) (probe.Mode, error) {
	switch strings.ToLower(s) {
	case "baked":
		return probe.ModeBaked, nil
	case "custom":
		return probe.ModeCustom, nil
	case "realtime":
		return probe.ModeRealtime, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}

func parseProxy(s string) (*probe.ProxyVolumeComponent, error) {
	volume := probe.ProxyVolume{BoxSize: mgl32.Vec3{4, 4, 4}, SphereRadius: 3}
	switch strings.ToLower(s) {
	case "none", "":
		return nil, nil
	case "box":
		volume.Shape = probe.ProxyShapeBox
	case "sphere":
		volume.Shape = probe.ProxyShapeSphere
	case "infinite":
		volume.Shape = probe.ProxyShapeInfinite
	default:
		return nil, fmt.Errorf("unknown proxy shape %q", s)
	}
	return probe.NewProxyVolumeComponent(common.IdentityTransform(), volume), nil
}

func writeInspectTable(w io.Writer, p probe.Probe) {
	sphere := p.BoundingSphere()
	bounds := p.Bounds()

	table := tablewriter.NewWriter(w)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Property", "Value"})
	table.Append([]string{"ID", fmt.Sprint(p.ID())})
	table.Append([]string{"Type", p.Type().String()})
	table.Append([]string{"Mode", p.Mode().String()})
	table.Append([]string{"Light layers", fmt.Sprintf("%d (0x%02X)", p.LightLayers(), p.LightLayersAsUInt())})
	table.Append([]string{"Projection infinite", fmt.Sprint(p.IsProjectionInfinite())})
	table.Append([]string{"Proxy extents", fmtVec3(p.ProxyExtents())})
	table.Append([]string{"Bounding sphere", fmt.Sprintf("%s r=%.2f", fmtVec3(sphere.Center), sphere.Radius)})
	table.Append([]string{"Bounds", fmt.Sprintf("%s .. %s", fmtVec3(bounds.Min()), fmtVec3(bounds.Max()))})
	gpu := probe.NewGPUProbeData(p)
	table.Append([]string{"GPU record", fmt.Sprintf("%d bytes", gpu.Size())})
	table.Render()
}
