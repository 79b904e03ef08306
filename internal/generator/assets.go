package generator

// Embedded deck assets. The card, page and index templates use the same
// {{ field }} syntax project templates do; the generator fills them with
// the template package rather than html/template, so project-provided
// replacements behave identically to the built-in ones.

// cardContainer wraps one rendered card.
const cardContainer = `<div class="card {{ _card_size }}">
    {{ _card_content }}
</div>`

// fillerCard pads incomplete back rows so duplexed fronts and backs stay
// aligned.
const fillerCard = `<div class="card filler {{ _card_size }}"></div>`

// errorCard replaces a card whose template failed to load.
const errorCard = `<div class="error-card-content">
    <p class="error-card-heading">Could not create this card</p>
    <p>{{ _error_message }}</p>
    <p class="error-card-detail">Template: {{ _card_template_path }}</p>
    <p class="error-card-detail">Row {{ _card_row_index }}, card {{ _card_index }}, copy {{ _card_copy_index }}</p>
</div>`

// pageContainer wraps one page of cards, its cut guides and its footer.
const pageContainer = `<div class="page {{ _page_class }}">
    <div class="page-content">
        {{ _cards }}
        {{ _page_guides }}
    </div>
    <div class="page-footer">
        <span class="page-footer-content">{{ _page_footer }}</span>
        <span class="page-footer-content page-number-tag">Page {{ _page_number }} / {{ _pages_total }}</span>
    </div>
</div>`

// indexPage is the deck document: all pages, the toolbar and the help
// modal. Toolbar element ids and classes match what js/cards.js and the
// preview server manipulate.
const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{ __title }}</title>
    <meta name="description" content="{{ _description }}">
    <meta name="author" content="{{ _author }}">
    <meta name="generator" content="cardpress {{ _program_version }}">
    <link rel="stylesheet" href="css/index.css">
    <link rel="stylesheet" href="css/cards.css">
    {{ _styles }}
</head>
<body>
    <div id="toolbar" class="toolbar toolbar-hidden">
        <div id="ui-toolbar-inner">
            <div id="ui-stats"></div>
            <button class="ui-action" id="print" onclick="window.print()">Print</button>
            <button class="ui-action" id="toggle-footer" onclick="toggleFooter()">
                <span id="toggle-footer-on">Footer shown</span>
                <span id="toggle-footer-off" style="display: none;">Footer hidden</span>
            </button>
            <button class="ui-action" id="toggle-cut-guides" onclick="toggleCutGuides()">
                <span id="toggle-cut-guides-on">Cut guides shown</span>
                <span id="toggle-cut-guides-off" style="display: none;">Cut guides hidden</span>
            </button>
            <button class="ui-action" id="toggle-card-backs" onclick="toggleCardBacks()">
                <span id="toggle-card-backs-on">Backs shown</span>
                <span id="toggle-card-backs-off" style="display: none;">Backs hidden</span>
            </button>
            <button class="ui-action" id="toggle-two-sided" onclick="toggleTwoSided()">
                <span id="toggle-two-sided-on">Two-sided on</span>
                <span id="toggle-two-sided-off" style="display: none;">Two-sided off</span>
            </button>
            <button class="ui-action" id="show-help" onclick="toggleHelp(true)">?</button>
        </div>
        <div class="toolbar-meta">
            <span>{{ _title }} {{ _version }}</span>
            <span>{{ _copyright }}</span>
        </div>
    </div>
    <div id="ui-modal-help" style="display: none;" onclick="dismissHelp(event)">
        <div class="ui-modal-content">
            <h2>{{ __title }}</h2>
            <p>{{ _description }}</p>
            <p>Print this page to get your deck. Use the toolbar to hide the
            page footers or cut guides, to leave out card backs, or to switch
            the layout between one- and two-sided printing.</p>
            <p>Generated by cardpress {{ _program_version }}.</p>
        </div>
    </div>
    {{ _pages }}
    <script src="js/cards.js"></script>
</body>
</html>`

// cardsCSS sizes cards and pages in physical units so the printed output
// matches the cut guide geometry.
const cardsCSS = `.page {
    position: relative;
    width: 7.5in;
    height: 10.5in;
    margin: 0.25in auto;
    background: #ffffff;
    box-shadow: 0 1px 4px rgba(0, 0, 0, 0.25);
    overflow: hidden;
}

.page-content {
    display: flex;
    flex-flow: row wrap;
    align-content: flex-start;
    width: 100%;
    height: 100%;
}

.card {
    position: relative;
    overflow: hidden;
    box-sizing: border-box;
}

.card-size-075x075 { width: 0.75in; height: 0.75in; }
.card-size-25x35 { width: 2.5in; height: 3.5in; }
.card-size-25x25 { width: 2.5in; height: 2.5in; }
.card-size-35x35 { width: 3.5in; height: 3.5in; }
.card-size-35x25 { width: 3.5in; height: 2.5in; }
.card-size-35x55 { width: 3.5in; height: 5.5in; }
.card-size-175x35 { width: 1.75in; height: 3.5in; }
.card-size-cover { width: 7.5in; height: 10.5in; }

.filler {
    background: none;
}

.cut-guide {
    position: absolute;
    width: 0.125in;
    height: 0.125in;
    background:
        linear-gradient(#b0b0b0, #b0b0b0) center / 100% 1px no-repeat,
        linear-gradient(#b0b0b0, #b0b0b0) center / 1px 100% no-repeat;
    pointer-events: none;
}

.page-footer {
    position: absolute;
    bottom: 0.05in;
    left: 0;
    right: 0;
    display: flex;
    justify-content: space-between;
    padding: 0 0.2in;
    font-size: 8pt;
    color: #808080;
}

.auto-template-field {
    padding: 0.08in;
    text-align: center;
    font-family: Georgia, serif;
}

.auto-template-number {
    font-size: 22pt;
    font-weight: bold;
}

.auto-template-title {
    font-size: 13pt;
}

.auto-template-text {
    font-size: 9pt;
    text-align: left;
}

.error-card-content {
    padding: 0.1in;
    border: 2px dashed #c0392b;
    height: 100%;
    box-sizing: border-box;
    font-family: monospace;
    font-size: 8pt;
    color: #c0392b;
}

.error-card-heading {
    font-weight: bold;
}

.error-card-detail {
    color: #808080;
}

@media print {
    .page {
        margin: 0;
        box-shadow: none;
        page-break-after: always;
    }
}`

// indexCSS styles the screen-only chrome around the pages.
const indexCSS = `html, body {
    margin: 0;
    padding: 0;
    background: #e8e8e8;
    font-family: -apple-system, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
}

.toolbar {
    position: fixed;
    top: 0;
    left: 0;
    right: 0;
    z-index: 10;
    background: #2c3e50;
    color: #ecf0f1;
    padding: 8px 16px;
    transition: opacity 0.4s ease;
}

.toolbar-hidden {
    opacity: 0;
    pointer-events: none;
}

.toolbar-revealed {
    opacity: 1;
}

#ui-toolbar-inner {
    display: flex;
    align-items: center;
    gap: 8px;
}

#ui-stats {
    margin-right: auto;
    font-size: 12px;
    line-height: 1.3;
}

.ui-action {
    background: #34495e;
    color: inherit;
    border: none;
    border-radius: 3px;
    padding: 6px 10px;
    font-size: 12px;
    cursor: pointer;
}

.ui-action:hover {
    background: #3d566e;
}

.toolbar-meta {
    display: flex;
    justify-content: space-between;
    font-size: 10px;
    color: #95a5a6;
    margin-top: 4px;
}

#ui-modal-help {
    position: fixed;
    inset: 0;
    z-index: 20;
    background: rgba(0, 0, 0, 0.6);
}

.ui-modal-content {
    max-width: 480px;
    margin: 15vh auto;
    background: #ffffff;
    border-radius: 6px;
    padding: 24px 32px;
}

body {
    padding-top: 64px;
}

@media print {
    body {
        background: none;
        padding-top: 0;
    }

    .toolbar, #ui-modal-help {
        display: none !important;
    }
}`

// cardsJS mirrors the server-side page-view controller so the generated
// deck works as a plain static page. The generator pre-normalizes the
// document, so on load the script only wires handlers, numbers pages and
// reveals the toolbar.
const cardsJS = `'use strict';

function styleOf(element, property) {
    return element.style.getPropertyValue(property);
}

function toggleVisibility(className) {
    const elements = document.getElementsByClassName(className);
    if (elements.length === 0) {
        return null;
    }
    let first = null;
    for (const element of elements) {
        const next = styleOf(element, 'visibility') === 'hidden' ? 'visible' : 'hidden';
        element.style.setProperty('visibility', next);
        if (first === null) {
            first = next;
        }
    }
    return first;
}

function toggleDisplay(className, explicit) {
    const elements = document.getElementsByClassName(className);
    if (elements.length === 0) {
        return null;
    }
    let first = null;
    for (const element of elements) {
        let next;
        if (explicit !== undefined) {
            next = explicit ? 'block' : 'none';
        } else {
            next = styleOf(element, 'display') === 'none' ? 'block' : 'none';
        }
        element.style.setProperty('display', next);
        if (first === null) {
            first = next;
        }
    }
    return first;
}

function toggleEnability(id, enabled) {
    const element = document.getElementById(id);
    if (element === null) {
        return;
    }
    element.style.setProperty('opacity', enabled ? '1.0' : '0.2');
    element.style.setProperty('pointer-events', enabled ? 'auto' : 'none');
}

function toggleButtons(onId, offId, showOn) {
    document.getElementById(onId).style.setProperty('display', showOn ? 'block' : 'none');
    document.getElementById(offId).style.setProperty('display', showOn ? 'none' : 'block');
}

function toggleFooter() {
    const visibility = toggleVisibility('page-footer');
    if (visibility === null) {
        return;
    }
    toggleButtons('toggle-footer-on', 'toggle-footer-off', visibility !== 'hidden');
    updatePageNumbers();
}

function toggleCutGuides() {
    const visibility = toggleVisibility('cut-guide');
    if (visibility === null) {
        return;
    }
    toggleButtons('toggle-cut-guides-on', 'toggle-cut-guides-off', visibility !== 'hidden');
    updatePageNumbers();
}

function toggleTwoSided(explicit) {
    const display = toggleDisplay('filler', explicit);
    if (display === null) {
        return;
    }
    toggleButtons('toggle-two-sided-on', 'toggle-two-sided-off', display !== 'none');
    updatePageNumbers();
}

function toggleCardBacks() {
    const display = toggleDisplay('page-backs');
    if (display === null) {
        return;
    }
    const showing = display !== 'none';
    toggleButtons('toggle-card-backs-on', 'toggle-card-backs-off', showing);
    if (showing) {
        toggleEnability('toggle-two-sided', true);
    } else {
        toggleTwoSided(false);
        toggleEnability('toggle-two-sided', false);
    }
    updatePageNumbers();
}

function toggleHelp(show) {
    document.getElementById('ui-modal-help').style.setProperty('display', show ? 'block' : 'none');
}

function dismissHelp(event) {
    if (event.target.id === 'ui-modal-help') {
        toggleHelp(false);
    }
}

function updatePageNumbers() {
    const pages = Array.from(document.getElementsByClassName('page'))
        .filter((page) => styleOf(page, 'display') !== 'none');

    let cards = 0;
    let frontPages = 0;
    pages.forEach((page, index) => {
        for (const tag of page.getElementsByClassName('page-number-tag')) {
            tag.textContent = 'Page ' + (index + 1) + ' / ' + pages.length;
        }
        if (page.classList.contains('page-backs')) {
            return;
        }
        frontPages += 1;
        for (const card of page.getElementsByClassName('card')) {
            if (!card.classList.contains('card-size-cover')) {
                cards += 1;
            }
        }
    });

    document.getElementById('ui-stats').innerHTML = cards + ' cards<br />' + frontPages + ' pages';
}

function revealUI() {
    const toolbar = document.getElementById('toolbar');
    toolbar.classList.remove('toolbar-hidden');
    toolbar.classList.add('toolbar-revealed');
}

window.addEventListener('load', () => {
    updatePageNumbers();
    setTimeout(revealUI, 400);
});`
