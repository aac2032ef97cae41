// Package splat defines the record layouts handled by splatpack.
//
// A float record holds the 62 float32 attributes of one Gaussian splat in a
// fixed order:
//
//	px py pz                position
//	nx ny nz                normal
//	dc_r dc_g dc_b          diffuse color
//	sh_r_0..14 sh_g_0..14 sh_b_0..14
//	                        spherical-harmonic coefficients
//	opacity
//	sx sy sz                log-scale
//	rot_w rot_x rot_y rot_z orientation quaternion
//
// Records are stored little-endian with a stride of 248 bytes. Packed records
// hold one unorm16 per channel listed in a PackedLayout (124 bytes for the
// default layout, 118 for the compact layout without normals).
//
// Access goes through the channel descriptor table (Channels, ChannelByName)
// and explicit byte-cursor reads and writes, never by reinterpreting memory.
package splat
