package decoder

import (
	"fmt"

	"github.com/gisconv/mapgis/internal/log"
	"github.com/sirupsen/logrus"
)

// CRSKind classifies how a coordinate system was established.
type CRSKind int

const (
	// CRSEmpty means the file carried no resolvable coordinate system.
	CRSEmpty CRSKind = iota
	// CRSDerived means the system was built from the file's ellipsoid and
	// projection codes.
	CRSDerived
	// CRSExplicit means the caller supplied an EPSG code, which always
	// wins over anything stored in the file.
	CRSExplicit
)

// CoordinateSystem is the resolved spatial reference of a file.
type CoordinateSystem struct {
	Kind            CRSKind
	EPSG            int
	Proj            string
	ProjectionCode  byte
	EllipsoidCode   byte
	CentralMeridian float64

	// RequiresOverride is set for Gauss-Krüger zone files whose zone
	// cannot be recovered from the file alone; converting them needs an
	// explicit EPSG code.
	RequiresOverride bool
}

func (cs CoordinateSystem) IsEmpty() bool {
	return cs.Kind == CRSEmpty
}

func (cs CoordinateSystem) String() string {
	switch cs.Kind {
	case CRSExplicit:
		return fmt.Sprintf("EPSG:%d", cs.EPSG)
	case CRSDerived:
		return cs.Proj
	default:
		return ""
	}
}

// Ellipsoid parameter fragments keyed by the byte code at offset 110.
// Only these eight codes occur in the wild.
var ellipsoids = map[byte]string{
	1:   "+ellps=krass +towgs84=15.8,-154.4,-82.3,0,0,0,0",
	2:   "+a=6378140 +b=6356755.288157528",
	7:   "+datum=WGS84",
	9:   "+ellps=WGS72",
	10:  "+ellps=aust_SA +towgs84=-117.808,-51.536,137.784,0.303,0.446,0.234,-0.29",
	11:  "+ellps=aust_SA +towgs84=-134,-48,149,0,0,0,0",
	16:  "+ellps=krass",
	116: "+ellps=clrk80 +towgs84=-166,-15,204,0,0,0,0",
}

// Projection type codes at offset 109.
const (
	projGeographic      = 0
	projGaussKruger3Deg = 2
	projGaussKruger6Deg = 3
	projTransverseMerc  = 5
)

const (
	offProjectionType  = 109
	offEllipsoidCode   = 110
	offCoordinateScale = 143
	offCentralMeridian = 151
)

// resolveCRS reads the coordinate system region of the file header and
// returns the resolved system together with the effective coordinate
// scale. scaleOverride and srid are caller overrides; zero means unset.
func resolveCRS(c *cursor, scaleOverride, srid int, diag *Diagnostics) (CoordinateSystem, float64, error) {
	c.Seek(offProjectionType)
	projType, err := c.U8()
	if err != nil {
		return CoordinateSystem{}, 0, &ErrCorruptHeader{Reason: "coordinate system region unreadable"}
	}
	ellipsoid, err := c.U8()
	if err != nil {
		return CoordinateSystem{}, 0, &ErrCorruptHeader{Reason: "coordinate system region unreadable"}
	}

	c.Seek(offCoordinateScale)
	var scale float64
	if scaleOverride != 0 {
		c.Skip(8)
		scale = float64(scaleOverride)
	} else {
		scale, err = c.F64()
		if err != nil {
			return CoordinateSystem{}, 0, &ErrCorruptHeader{Reason: "coordinate scale unreadable"}
		}
	}

	cs := CoordinateSystem{
		Kind:           CRSEmpty,
		ProjectionCode: projType,
		EllipsoidCode:  ellipsoid,
	}
	fragment, known := ellipsoids[ellipsoid]

	if scale == 0 {
		// A zero multiplier would flatten every coordinate onto the
		// origin. The ellipsoid code still decides whether a system can
		// be derived.
		scale = 1
	}

	if !known {
		if ellipsoid != 0 {
			diag.UnknownEllipsoid = true
			log.With(logrus.Fields{"code": ellipsoid}).Warn("unknown ellipsoid code, coordinate system left empty")
		}
		if ellipsoid == 0 && srid == 0 {
			return cs, scale, nil
		}
		if scaleOverride != 0 {
			scale = float64(scaleOverride) / 1000
		} else {
			scale = 1
		}
		if srid == 0 {
			return cs, scale, nil
		}
	} else if srid == 0 {
		switch projType {
		case projGeographic:
			cs.Kind = CRSDerived
			cs.Proj = fmt.Sprintf("+proj=longlat %s +no_defs", fragment)
		case projTransverseMerc:
			cl, err := readCentralMeridian(c)
			if err != nil {
				return CoordinateSystem{}, 0, err
			}
			cs.Kind = CRSDerived
			cs.CentralMeridian = cl
			cs.Proj = fmt.Sprintf("+proj=tmerc +lat_0=0 +lon_0=%v +k=1 +x_0=500000 +y_0=0 %s +units=m +no_defs", cl, fragment)
		case projGaussKruger3Deg, projGaussKruger6Deg:
			// Zone numbering is not recoverable from the file; coordinates
			// are stored in millimetres here.
			scale /= 1000
			cl, err := readCentralMeridian(c)
			if err != nil {
				return CoordinateSystem{}, 0, err
			}
			cs.CentralMeridian = cl
			cs.RequiresOverride = true
			log.With(logrus.Fields{"central_meridian": cl}).Warn("Gauss-Krüger file needs an explicit EPSG code")
		}
	}

	if srid != 0 {
		cs.Kind = CRSExplicit
		cs.EPSG = srid
		cs.Proj = ""
		cs.RequiresOverride = false
	}
	return cs, scale, nil
}

func readCentralMeridian(c *cursor) (float64, error) {
	c.Seek(offCentralMeridian)
	packed, err := c.F64()
	if err != nil {
		return 0, &ErrCorruptHeader{Reason: "central meridian unreadable"}
	}
	return packedDegrees(packed), nil
}

// packedDegrees decodes a DDDMMSS-packed angle into decimal degrees.
func packedDegrees(v float64) float64 {
	n := int64(v)
	sec := n % 100
	min := (n / 100) % 100
	deg := n / 10000
	return float64(deg) + float64(min)/60 + float64(sec)/3600
}
