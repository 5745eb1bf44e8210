//go:build linux

package display

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
)

type linuxProvider struct{}

func newPlatformProvider() Provider {
	return &linuxProvider{}
}

// Screens enumerates active CRTCs via XRandR. X11 reports physical pixels,
// so the backing scale factor is always 1 here.
func (p *linuxProvider) Screens() []Screen {
	screens, err := queryRandr()
	if err != nil {
		warnFallback("linux", err)
		return fallbackScreens(1)
	}
	if len(screens) == 0 {
		warnFallback("linux", fmt.Errorf("no active CRTCs"))
		return fallbackScreens(1)
	}
	return screens
}

func queryRandr() ([]Screen, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect to X server: %w", err)
	}
	defer conn.Close()

	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("randr init: %w", err)
	}

	root := xproto.Setup(conn).DefaultScreen(conn).Root
	resources, err := randr.GetScreenResources(conn, root).Reply()
	if err != nil {
		return nil, fmt.Errorf("get screen resources: %w", err)
	}

	var screens []Screen
	for _, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(conn, crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		// Disabled CRTCs report zero size.
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}
		screens = append(screens, Screen{
			Index:  len(screens) + 1,
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
			Scale:  1,
		})
	}
	return screens, nil
}
