// Package domain models USGS earthquake feed data and the magnitude rules
// shared by filtering and map rendering.
//
// # Data Source
//
// Events come from the USGS Earthquake Hazards Program summary feeds, e.g.
// https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_day.geojson.
// The feed is regenerated upstream every minute; this service fetches it on
// start and whenever a user asks for a refresh.
//
// # Feed Conventions
//
// Document shape:
//
//	{"type": "FeatureCollection", "features": [ ... ]}
//
// Feature shape (only the fields read here):
//
//	{
//	  "id": "us7000abcd",
//	  "properties": {"mag": 4.6, "place": "12 km SSW of Hualien City, Taiwan",
//	                 "time": 1713968400000, "url": "https://...", "title": "M 4.6 - ..."},
//	  "geometry": {"type": "Point", "coordinates": [121.55, 23.86, 10.0]}
//	}
//
// Coordinates are [longitude, latitude, depth_km]. Depth is optional in the
// GeoJSON format and defaults to zero when missing.
//
// Time is epoch milliseconds (UTC). Rendering to a human-readable local time
// happens at the edge (browser locale or the CLI's local zone).
//
// Magnitude may be null for events that have not been reviewed yet; those
// decode to zero and fall into the minor bucket.
//
// # Magnitude Buckets
//
// One classification drives both the filter and marker colors:
//
//	minor     m < 3.0          green  #22c55e
//	moderate  3.0 <= m <= 5.0  orange #f97316
//	major     m > 5.0          red    #ef4444
//
// Both boundary values belong to moderate. See [BucketOf].
package domain
