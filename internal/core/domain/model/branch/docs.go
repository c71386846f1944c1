// Package branch provides the Branch aggregate and the DeliveryZone entity.
// A branch is a physical restaurant location capable of fulfilling orders;
// zones are operator-drawn polygons that map a geographic area to a serving
// branch and take precedence over nearest-branch-by-distance resolution.
//
// Malformed zone polygons are rejected at creation time, never at query time.
package branch
