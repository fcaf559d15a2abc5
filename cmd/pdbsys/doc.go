/*
Pdbsys reads pdb files into molecular systems and says what it found.

Usage:
	pdbsys [options] file_or_code [...]

Each argument is a pdb file, possibly gzip or bzip2 compressed, or a
four letter code which is then downloaded. mmcif files are refused.

Atoms are split into systems by a selector:
	-s single   everything in one system (default)
	-s water    water in a second system, hydrogens dropped
	-s chains   one system per -chains group, then water

Partly occupied atoms without an alternate location are handled by
-occ strict (stop with an error), all, none, max, min or list (keep the
serial numbers given in the configuration file).

Options can also come from a toml file given with -c, for example

	selector = "chains"
	chains = ["AB", "C"]
	keep_remaining = true
	water_bfactor_max = 80.0
	occupancy = "max"

Flags on the command line win over the file.

-w writes the systems back out in pdb format, -d saves them in an
sqlite database, -radii reads a property file and reports mean atomic
radii and -conect counts the bonds from CONECT records.
The log level is taken from MOLSYS_LOG_LEVEL.
*/
package main
