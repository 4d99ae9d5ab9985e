package commands

import (
	"fmt"
	"io/fs"
	"math"
	"os"
	"os/user"
	"path"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	fcolor "github.com/fatih/color"
	"github.com/spf13/afero"
)

// Ls implements the UNIX ls command.
func Ls(env *Env, args []string) int {
	cmd := &SimpleCommand{
		Use:   "ls [OPTION]... [FILE]...",
		Short: "List information about the FILEs (the current directory by default).",
	}

	opts := cmd.Flags()
	listAll := opts.Bool('a', "don't ignore entries starting with .")
	longListing := opts.Bool('l', "use a long listing format")
	humanSize := opts.BoolLong("human-readable", 'h', "print human readable sizes")
	lineWidth := opts.IntLong("width", 'w', 80, "set the column width, 0 is infinite")
	cmd.ShowHelp = opts.BoolLong("help", '?', "show help and exit")

	var color ColorPrinter
	color.Init(opts, env)

	return cmd.Run(env, args, func() int {
		// Initialize arguments
		directoriesToList := opts.Args()
		if len(directoriesToList) == 0 {
			directoriesToList = append(directoriesToList, ".")
		}
		sort.Strings(directoriesToList)

		showDirectoryNames := len(directoriesToList) > 1

		sizeFmt := func(bytes int64) string {
			return fmt.Sprintf("%d", bytes)
		}
		if *humanSize {
			sizeFmt = BytesToHuman
		}

		if *lineWidth == 0 {
			*lineWidth = math.MaxInt32
		}

		for i, directory := range directoriesToList {
			paths, err := readDir(env.Fs, directory)
			if err != nil {
				cmd.LogProgramError(env, err)
				continue
			}

			var totalSize int64
			var visible []os.FileInfo
			for _, p := range paths {
				if !*listAll && strings.HasPrefix(p.Name(), ".") {
					continue
				}
				visible = append(visible, p)
				totalSize += p.Size()
			}

			if showDirectoryNames {
				if i > 0 {
					fmt.Fprintln(env.Stdout())
				}
				fmt.Fprintf(env.Stdout(), "%s:\n", directory)
			}

			if *longListing {
				printLong(env, &color, visible, totalSize, sizeFmt)
			} else {
				printColumns(env, &color, visible, *lineWidth)
			}
		}

		return StatusContinue
	})
}

// readDir lists a directory sorted by name, a file lists as itself.
func readDir(fsys afero.Fs, name string) ([]os.FileInfo, error) {
	info, err := fsys.Stat(name)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []os.FileInfo{info}, nil
	}

	// afero.ReadDir sorts by name.
	return afero.ReadDir(fsys, name)
}

func printLong(env *Env, color *ColorPrinter, paths []os.FileInfo, totalSize int64, sizeFmt func(int64) string) {
	fmt.Fprintf(env.Stdout(), "total %d\n", totalSize)
	tw := tabwriter.NewWriter(env.Stdout(), 0, 0, 1, ' ', 0)
	currentYear := time.Now().Year()
	for _, f := range paths {
		hardLinks := 1
		if f.IsDir() {
			hardLinks = 2
		}

		// Include time if current year.
		modTime := f.ModTime().Format("Jan _2 2006")
		if f.ModTime().Year() >= currentYear {
			modTime = f.ModTime().Format("Jan _2 15:04")
		}

		uid, gid := getUIDGID(f)
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			f.Mode().String(),
			hardLinks,
			uidName(uid),
			gidName(gid),
			sizeFmt(f.Size()),
			modTime,
			color.Sprintf(Dircolor(f), "%s", f.Name()))
	}
	tw.Flush()
}

func printColumns(env *Env, color *ColorPrinter, paths []os.FileInfo, lineWidth int) {
	if len(paths) == 0 {
		return
	}

	colWidths := columnize(paths, lineWidth)
	cols := len(colWidths)
	rows := (len(paths) + cols - 1) / cols

	w := env.Stdout()
	for row := 0; row < rows; row++ {
		for col, width := range colWidths {
			index := (col * rows) + row
			if index >= len(paths) {
				break
			}
			// Add padding if there was a column before this.
			if col > 0 {
				fmt.Fprint(w, "  ")
			}
			entry := paths[index]
			name := entry.Name()
			fmt.Fprint(w, color.Sprintf(Dircolor(entry), "%s", name))

			// Pad for alignment unless this is the last entry in the row.
			next := ((col + 1) * rows) + row
			if col+1 < cols && next < len(paths) {
				fmt.Fprint(w, strings.Repeat(" ", width-len(name)))
			}
		}
		fmt.Fprintln(w)
	}
}

type LsColorTest struct {
	color *fcolor.Color
	test  func(fileInfo os.FileInfo) bool
}

// Color listing comes from: https://askubuntu.com/a/884513
var dircolors = []LsColorTest{
	// Directories are bold blue.
	{color: ColorBoldBlue, test: os.FileInfo.IsDir},
	// Symlinks are bold cyan.
	{color: ColorBoldCyan, test: func(fi os.FileInfo) bool {
		return fi.Mode()&fs.ModeSymlink > 0
	}},
	// Yellow with black background pipe, block device, char device.
	{color: fcolor.New(fcolor.FgYellow, fcolor.BgBlack, fcolor.Bold), test: func(fi os.FileInfo) bool {
		return fi.Mode()&(fs.ModeDevice|fs.ModeNamedPipe|fs.ModeSocket|fs.ModeCharDevice) > 0
	}},
	// Executables are bold green.
	{color: ColorBoldGreen, test: func(fi os.FileInfo) bool {
		return fi.Mode().Perm()&0111 > 0
	}},
	// Archives are bold red.
	{color: ColorBoldRed, test: func(fi os.FileInfo) bool {
		return map[string]bool{
			".tar": true,
			".tgz": true,
			".zip": true,
			".gz":  true,
			".bz2": true,
			".bz":  true,
			".tbz": true,
			".deb": true,
			".rpm": true,
			".jar": true,
			".war": true,
			".rar": true,
		}[path.Ext(fi.Name())]
	}},
}

func Dircolor(fileInfo os.FileInfo) *fcolor.Color {
	for _, dc := range dircolors {
		if dc.test(fileInfo) {
			return dc.color
		}
	}

	// Anything else defaults to white.
	return fcolor.New(fcolor.FgHiWhite)
}

// columnize finds the widest layout that fits in screenWidth and returns the
// width of each column. Entries fill columns top to bottom.
func columnize(paths []fs.FileInfo, screenWidth int) []int {
	numFiles := len(paths)
	if numFiles == 0 {
		return []int{0}
	}

	const colPadding = 2

	// Start with maximum number of columns and work down until all the data fits.
	// 3 is the minimum column width, 1 char filename + 2 padding.
	columns := screenWidth / (1 + colPadding)
	if columns > numFiles {
		columns = numFiles
	}
	if columns < 1 {
		columns = 1
	}

	var maximums []int // Holds maximum size of a name in the column.
	for ; columns >= 1; columns-- {
		rows := (numFiles + columns - 1) / columns
		used := (numFiles + rows - 1) / rows
		maximums = make([]int, used)
		for i, p := range paths {
			if l := len(p.Name()); l > maximums[i/rows] {
				maximums[i/rows] = l
			}
		}

		total := (used - 1) * colPadding
		for _, m := range maximums {
			total += m
		}
		if total <= screenWidth {
			return maximums
		}
	}

	return maximums
}

func getUIDGID(fileInfo os.FileInfo) (uid, gid int) {
	if v, ok := fileInfo.Sys().(*syscall.Stat_t); ok {
		return int(v.Uid), int(v.Gid)
	}
	return os.Getuid(), os.Getgid()
}

func uidName(uid int) string {
	id := strconv.Itoa(uid)
	if u, err := user.LookupId(id); err == nil {
		return u.Username
	}
	return id
}

func gidName(gid int) string {
	id := strconv.Itoa(gid)
	if g, err := user.LookupGroupId(id); err == nil {
		return g.Name
	}
	return id
}

var _ Builtin = Ls
